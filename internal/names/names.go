// Package names validates the identifiers that appear in a guard description.
//
// # Validation Patterns
//
// Import names must match: [A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*
// Exportable environment variables must match: [A-Za-z_][A-Za-z0-9_]*
package names

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	importNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	envVarRegex     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidateImportName checks that name can be imported with an import statement.
func ValidateImportName(name string) error {
	if name == "" {
		return fmt.Errorf("import name cannot be empty")
	}
	if !importNameRegex.MatchString(name) {
		return fmt.Errorf("invalid import name %q: must be a dotted sequence of identifiers", name)
	}
	return nil
}

// IsSubmodule reports whether name refers to a module inside a package ("a.b").
func IsSubmodule(name string) bool {
	return strings.Contains(name, ".")
}

// IsExportable reports whether a shell can export a variable named name.
func IsExportable(name string) bool {
	return envVarRegex.MatchString(name)
}

// DistributionName derives the conventional distribution name of a module:
// underscores become dashes ("my_dependency" -> "my-dependency").
func DistributionName(importName string) string {
	return strings.ReplaceAll(importName, "_", "-")
}
