// Package pusimp prevents user-site imports on a specific set of dependencies.
//
// A package installed by a system package manager (apt, dnf, conda, ...) can
// be silently broken when a user installs one of its dependencies with a
// per-user tool such as pip: the user-site copy shadows the system one. This
// library lets the guarded package verify, at load time, that each dependency
// resolves to the file the system package manager put in place, and fail with
// one actionable message otherwise.
//
// # Quick Start
//
//	guard := pusimp.Guard{
//	    PackageName:    "dolfinx",
//	    SystemManager:  "apt",
//	    ContactURL:     "https://fenicsproject.discourse.group/",
//	    ExpectedPrefix: "/usr/lib/petsc/lib/python3/dist-packages",
//	    Dependencies: []pusimp.Dependency{
//	        {ImportName: "ufl", DistributionName: "fenics-ufl"},
//	    },
//	}
//	err := pusimp.Check(ctx, guard, pusimp.WithResolver(pusimp.NewInterpreterResolver("python3")))
//
// # Classification
//
// Each dependency ends up in exactly one of:
//
//   - system: resolved to PREFIX/NAME/__init__.py
//   - missing: mandatory and PREFIX/NAME/__init__.py does not exist
//   - broken: mandatory and the resolver failed
//   - local: resolved somewhere else (optional or not)
//   - skipped: optional and the resolver failed
//
// Missing, broken and local dependencies are problems. All problems are
// collected into a single *ImportError.
//
// # Escape hatch
//
// Exporting PACKAGE_ALLOW_USER_SITE_IMPORTS (upper-cased package name) with
// any value disables the check entirely.
//
// # Resolvers
//
// Import semantics are supplied by a Resolver. SearchPathResolver emulates an
// interpreter search path on the local filesystem, InterpreterResolver asks a
// real interpreter, and ImportCache memoises results the way an interpreter
// imports each module only once.
package pusimp

import (
	"context"
	"fmt"
)

// Check inspects every dependency of g and returns an *ImportError if any
// problem was found. It returns nil when all dependencies are fine or when
// the escape-hatch variable is set.
//
// Errors other than *ImportError indicate a bad configuration or a cancelled
// context.
func Check(ctx context.Context, g Guard, opts ...Option) error {
	cfg, err := newCheckerConfig(opts...)
	if err != nil {
		return fmt.Errorf("configure check: %w", err)
	}

	report, err := inspect(ctx, g, cfg)
	if err != nil {
		return err
	}
	if report.HasProblems() {
		return newImportError(report, cfg.pipCommand)
	}
	return nil
}

// Inspect classifies every dependency of g and returns the full report
// without turning problems into an error. Use it to display per-dependency
// outcomes; use Check to guard a package.
func Inspect(ctx context.Context, g Guard, opts ...Option) (*Report, error) {
	cfg, err := newCheckerConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("configure check: %w", err)
	}
	return inspect(ctx, g, cfg)
}

// Message renders the user-facing text for a report with problems, exactly
// as returned by (*ImportError).Error. It returns an empty string if the
// report is nil or has no problems.
func Message(r *Report, opts ...Option) (string, error) {
	cfg := &checkerConfig{pipCommand: DefaultPipCommand}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return "", err
		}
	}
	if r == nil || !r.HasProblems() {
		return "", nil
	}
	return formatReport(r, cfg.pipCommand), nil
}

// CheckDependencies is the parallel-list form of Check. The four slices
// describe one dependency per index and must have equal length; a mismatch
// is reported as a *ConfigurationError before anything is inspected.
func CheckDependencies(
	ctx context.Context,
	packageName, systemManager, contactURL, expectedPrefix string,
	importNames, distributionNames []string,
	optional []bool,
	extraMessages []string,
	opts ...Option,
) error {
	g, err := NewGuard(packageName, systemManager, contactURL, expectedPrefix,
		importNames, distributionNames, optional, extraMessages)
	if err != nil {
		return err
	}
	return Check(ctx, g, opts...)
}

// NewGuard builds a Guard from parallel lists.
func NewGuard(
	packageName, systemManager, contactURL, expectedPrefix string,
	importNames, distributionNames []string,
	optional []bool,
	extraMessages []string,
) (Guard, error) {
	want := len(importNames)
	lengths := []struct {
		field string
		got   int
	}{
		{"distribution names", len(distributionNames)},
		{"optional flags", len(optional)},
		{"extra messages", len(extraMessages)},
	}
	for _, l := range lengths {
		if l.got != want {
			return Guard{}, &ConfigurationError{Field: l.field, Want: want, Got: l.got}
		}
	}

	deps := make([]Dependency, want)
	for i := range importNames {
		deps[i] = Dependency{
			ImportName:       importNames[i],
			DistributionName: distributionNames[i],
			Optional:         optional[i],
			ExtraMessage:     extraMessages[i],
		}
	}

	return Guard{
		PackageName:    packageName,
		SystemManager:  systemManager,
		ContactURL:     contactURL,
		ExpectedPrefix: expectedPrefix,
		Dependencies:   deps,
	}, nil
}
