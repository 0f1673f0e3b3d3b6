// Package manifest loads a guard description from a file.
//
// Two formats are supported. Starlark files (.star, .bzl, or any other
// extension) declare one guard() call and any number of dependency() calls:
//
//	guard(
//	    package = "dolfinx",
//	    system_manager = "apt",
//	    contact_url = "https://fenicsproject.discourse.group/",
//	    expected_prefix = "/usr/lib/petsc/lib/python3/dist-packages",
//	)
//
//	dependency(import_name = "ufl", distribution_name = "fenics-ufl")
//	dependency(import_name = "petsc4py", optional = True)
//
// YAML and JSON files (.yaml, .yml, .json) use the same field names:
//
//	package: dolfinx
//	system_manager: apt
//	expected_prefix: /usr/lib/petsc/lib/python3/dist-packages
//	dependencies:
//	  - import_name: ufl
//	    distribution_name: fenics-ufl
//
// A missing distribution_name defaults to the import name with underscores
// replaced by dashes.
//
// Parsing never stops at the first semantic problem: Parse returns a Result
// whose Errors and Warnings list every diagnostic with its position. Only
// unreadable files and syntax errors are returned as a Go error.
package manifest
