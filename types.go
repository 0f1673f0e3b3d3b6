package pusimp

import (
	"fmt"
	"strings"
)

// InitFile is the file name a package is expected to resolve to inside its directory.
const InitFile = "__init__.py"

// allowEnvSuffix is appended to the package name to build the escape-hatch variable.
const allowEnvSuffix = "_allow_user_site_imports"

// Guard describes a package whose dependencies must come from the system path.
type Guard struct {
	// PackageName is the guarded package. Used in messages and to derive
	// the escape-hatch environment variable.
	PackageName string `json:"package" yaml:"package"`

	// SystemManager names the package manager that installed the package
	// (e.g., "apt"). Only used in messages.
	SystemManager string `json:"system_manager" yaml:"system_manager"`

	// ContactURL is where false positives should be reported. Only used in messages.
	ContactURL string `json:"contact_url" yaml:"contact_url"`

	// ExpectedPrefix is the directory under which every dependency is expected.
	ExpectedPrefix string `json:"expected_prefix" yaml:"expected_prefix"`

	// Dependencies are checked in order.
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
}

// Dependency is a single entry of a Guard.
type Dependency struct {
	// ImportName locates the module and forms the expected path.
	ImportName string `json:"import_name" yaml:"import_name"`

	// DistributionName is the name the user installs/uninstalls (e.g., "fenics-ufl").
	DistributionName string `json:"distribution_name" yaml:"distribution_name"`

	// Optional dependencies may be absent or broken without failing the check.
	Optional bool `json:"optional,omitempty" yaml:"optional"`

	// ExtraMessage is appended to the remediation bullet of this dependency.
	ExtraMessage string `json:"extra_message,omitempty" yaml:"extra_message"`
}

// AllowEnvVar returns the name of the environment variable that disables the
// check for this guard, e.g. "DOLFINX_ALLOW_USER_SITE_IMPORTS".
func (g Guard) AllowEnvVar() string {
	return AllowEnvVar(g.PackageName)
}

// AllowEnvVar returns the escape-hatch variable name for packageName.
func AllowEnvVar(packageName string) string {
	return strings.ToUpper(packageName + allowEnvSuffix)
}

// ExpectedPath returns where the system package manager is expected to have
// installed dep. The result is a plain concatenation; it is not cleaned.
func (g Guard) ExpectedPath(dep Dependency) string {
	return g.ExpectedPrefix + "/" + dep.ImportName + "/" + InitFile
}

// validate checks the invariants that do not depend on the environment.
func (g Guard) validate() error {
	for i, dep := range g.Dependencies {
		if dep.ImportName == "" {
			return &ConfigurationError{Message: fmt.Sprintf("dependency %d has an empty import name", i)}
		}
	}
	return nil
}

// Kind classifies the outcome of checking one dependency.
type Kind int

const (
	// KindSystem means the dependency was imported from its expected path.
	KindSystem Kind = iota
	// KindMissing means a mandatory dependency is absent from its expected path.
	KindMissing
	// KindBroken means a mandatory dependency failed to import.
	KindBroken
	// KindLocalPath means the dependency was imported from another location.
	KindLocalPath
	// KindSkipped means an optional dependency failed to import. Not a problem.
	KindSkipped
)

var kindNames = map[Kind]string{
	KindSystem:    "system",
	KindMissing:   "missing",
	KindBroken:    "broken",
	KindLocalPath: "local",
	KindSkipped:   "skipped",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsProblem reports whether the kind makes the check fail.
func (k Kind) IsProblem() bool {
	return k == KindMissing || k == KindBroken || k == KindLocalPath
}

// Outcome is the classification of one dependency.
type Outcome struct {
	Dependency   Dependency `json:"dependency"`
	Kind         Kind       `json:"kind"`
	ExpectedPath string     `json:"expected_path"`
	// ActualPath is set when the dependency resolved, whatever the location.
	ActualPath string `json:"actual_path,omitempty"`
	// ImportErr is the resolver error text for broken and skipped dependencies.
	ImportErr string `json:"import_error,omitempty"`
}

// Problem is an Outcome whose kind makes the check fail.
type Problem Outcome

func (p Problem) Error() string {
	name := p.Dependency.ImportName
	switch p.Kind {
	case KindMissing:
		return fmt.Sprintf("%s is missing. Its expected path was %s.", name, p.ExpectedPath)
	case KindBroken:
		return fmt.Sprintf("%s is broken. Error on import was '%s'.", name, p.ImportErr)
	case KindLocalPath:
		return fmt.Sprintf("%s: expected in %s, but imported from %s.", name, p.ExpectedPath, p.ActualPath)
	default:
		return fmt.Sprintf("%s is %s.", name, p.Kind)
	}
}

func (p Problem) Unwrap() error {
	switch p.Kind {
	case KindMissing:
		return ErrMissingDependency
	case KindBroken:
		return ErrBrokenDependency
	case KindLocalPath:
		return ErrLocalPathDependency
	default:
		return nil
	}
}

// Report is the result of inspecting every dependency of a guard.
type Report struct {
	Guard Guard `json:"guard"`

	// Skipped is true when the escape-hatch variable disabled the check.
	// Outcomes is empty in that case.
	Skipped bool `json:"skipped"`

	Outcomes []Outcome `json:"outcomes"`
}

// Problems returns the failing outcomes in input order.
func (r *Report) Problems() []Problem {
	var problems []Problem
	for _, o := range r.Outcomes {
		if o.Kind.IsProblem() {
			problems = append(problems, Problem(o))
		}
	}
	return problems
}

// HasProblems reports whether the check should fail.
func (r *Report) HasProblems() bool {
	for _, o := range r.Outcomes {
		if o.Kind.IsProblem() {
			return true
		}
	}
	return false
}

// Count returns how many outcomes have kind k.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == k {
			n++
		}
	}
	return n
}
