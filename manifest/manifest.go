package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pusimp "github.com/python-pusimp/go-pusimp"
	"github.com/python-pusimp/go-pusimp/internal/names"
)

// DefaultFile is the manifest looked up when no path is given.
const DefaultFile = "pusimp.star"

// Position is a location in a manifest file.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
	Wrapped error
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Message)
	}
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s: %s", e.Pos.Filename, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

// Result contains the loaded guard and any diagnostics.
type Result struct {
	Guard    pusimp.Guard
	Errors   []*ParseError
	Warnings []*ParseError
}

// HasErrors returns true if there were semantic errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err joins all errors, or returns nil if there are none.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Load reads and parses the manifest at path.
func Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// LoadGuard loads path and fails if the manifest has any error.
func LoadGuard(path string) (pusimp.Guard, error) {
	res, err := Load(path)
	if err != nil {
		return pusimp.Guard{}, err
	}
	if err := res.Err(); err != nil {
		return pusimp.Guard{}, err
	}
	return res.Guard, nil
}

// Parse parses manifest content. The format is chosen from the extension of filename.
func Parse(filename string, content []byte) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml", ".json":
		return parseYAML(filename, content)
	default:
		return parseStarlark(filename, content)
	}
}

// builder accumulates a guard and validates it independently of the source format.
type builder struct {
	filename string
	result   Result
	hasGuard bool
	seen     map[string]Position
}

func newBuilder(filename string) *builder {
	return &builder{filename: filename, seen: make(map[string]Position)}
}

func (b *builder) addError(pos Position, format string, args ...any) {
	b.result.Errors = append(b.result.Errors, &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (b *builder) addWarning(pos Position, format string, args ...any) {
	b.result.Warnings = append(b.result.Warnings, &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (b *builder) setGuard(pos Position, g pusimp.Guard) {
	if b.hasGuard {
		b.addError(pos, "guard: declared more than once")
		return
	}
	b.hasGuard = true

	if g.PackageName == "" {
		b.addError(pos, "guard: missing required package attribute")
	} else if env := g.AllowEnvVar(); !names.IsExportable(env) {
		b.addWarning(pos, "guard: %s cannot be exported from a shell", env)
	}
	if g.ExpectedPrefix == "" {
		b.addError(pos, "guard: missing required expected_prefix attribute")
	}
	if g.SystemManager == "" {
		b.addWarning(pos, "guard: system_manager is empty; messages will not name the package manager")
	}
	if g.ContactURL == "" {
		b.addWarning(pos, "guard: contact_url is empty; messages will not say where to report problems")
	}

	b.result.Guard.PackageName = g.PackageName
	b.result.Guard.SystemManager = g.SystemManager
	b.result.Guard.ContactURL = g.ContactURL
	b.result.Guard.ExpectedPrefix = g.ExpectedPrefix
}

func (b *builder) addDependency(pos Position, dep pusimp.Dependency) {
	if err := names.ValidateImportName(dep.ImportName); err != nil {
		b.addError(pos, "dependency: %v", err)
		return
	}
	if prev, ok := b.seen[dep.ImportName]; ok {
		b.addError(pos, "dependency: %s already declared at line %d", dep.ImportName, prev.Line)
		return
	}
	b.seen[dep.ImportName] = pos

	// The expected path is built from the import name verbatim, so the dots
	// never turn into directories.
	if names.IsSubmodule(dep.ImportName) {
		b.addWarning(pos, "dependency: %s names a submodule; its expected path expected_prefix/%s/%s will not match the imported file",
			dep.ImportName, dep.ImportName, pusimp.InitFile)
	}

	if dep.DistributionName == "" {
		dep.DistributionName = names.DistributionName(dep.ImportName)
	}
	b.result.Guard.Dependencies = append(b.result.Guard.Dependencies, dep)
}

func (b *builder) finish() *Result {
	if !b.hasGuard {
		b.addError(Position{Filename: b.filename}, "no guard declared")
	}
	return &b.result
}
