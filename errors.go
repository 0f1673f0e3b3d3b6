package pusimp

import (
	"errors"
	"fmt"
)

// Sentinel errors for the problem kinds the checker can detect.
var (
	// ErrConfiguration indicates the caller passed an inconsistent guard description.
	ErrConfiguration = errors.New("invalid guard configuration")

	// ErrMissingDependency indicates a mandatory dependency is absent from its expected path.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrBrokenDependency indicates a mandatory dependency failed to import.
	ErrBrokenDependency = errors.New("broken dependency")

	// ErrLocalPathDependency indicates a dependency was imported from outside the system path.
	ErrLocalPathDependency = errors.New("dependency imported from a local path")

	// ErrModuleNotFound indicates a resolver could not locate a module at all.
	ErrModuleNotFound = errors.New("module not found")
)

// ConfigurationError reports a precondition violation in the guard description,
// such as parallel dependency lists of different lengths.
type ConfigurationError struct {
	Field string
	Want  int
	Got   int
	// Message overrides the length-based text when set.
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Message)
	}
	return fmt.Sprintf("%s: %s has %d entries, expected %d", ErrConfiguration, e.Field, e.Got, e.Want)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// ResolveError is returned by the bundled resolvers when an import fails.
// Its Error text is what ends up in the "Error on import was" part of a report.
type ResolveError struct {
	ImportName string
	Message    string
	Err        error
}

func (e *ResolveError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("No module named '%s'", e.ImportName)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ImportError is the single error returned by Check when at least one problem
// was found. It carries the full report and formats it as the user-facing message.
type ImportError struct {
	Report *Report

	// message is rendered once, when the error is built.
	message string
}

func newImportError(r *Report, pipCommand string) *ImportError {
	return &ImportError{
		Report:  r,
		message: formatReport(r, pipCommand),
	}
}

func (e *ImportError) Error() string {
	return e.message
}

// Unwrap exposes every problem so callers can use errors.Is with the
// ErrMissingDependency, ErrBrokenDependency and ErrLocalPathDependency sentinels.
func (e *ImportError) Unwrap() []error {
	problems := e.Report.Problems()
	errs := make([]error, 0, len(problems))
	for _, p := range problems {
		errs = append(errs, p)
	}
	return errs
}
