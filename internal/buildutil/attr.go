// Package buildutil provides utilities for extracting attributes from
// buildtools AST nodes.
package buildutil

import (
	"github.com/bazelbuild/buildtools/build"
)

// Attr returns the right-hand side of the named keyword argument of call,
// or nil if the argument is absent.
func Attr(call *build.CallExpr, name string) build.Expr {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok || lhs.Name != name {
			continue
		}
		return assign.RHS
	}
	return nil
}

// Has reports whether call sets the named keyword argument.
func Has(call *build.CallExpr, name string) bool {
	return Attr(call, name) != nil
}

// String extracts a string attribute from a function call by name.
// ok is false if the attribute is absent or not a string literal.
func String(call *build.CallExpr, name string) (value string, ok bool) {
	str, ok := Attr(call, name).(*build.StringExpr)
	if !ok {
		return "", false
	}
	return str.Value, true
}

// Bool extracts a boolean attribute (True or False) from a function call by name.
// ok is false if the attribute is absent or not a boolean identifier.
func Bool(call *build.CallExpr, name string) (value bool, ok bool) {
	ident, isIdent := Attr(call, name).(*build.Ident)
	if !isIdent {
		return false, false
	}
	switch ident.Name {
	case "True":
		return true, true
	case "False":
		return false, true
	default:
		return false, false
	}
}

// Keywords returns the keyword argument names of call in source order.
func Keywords(call *build.CallExpr) []string {
	var names []string
	for _, arg := range call.List {
		if assign, ok := arg.(*build.AssignExpr); ok {
			if lhs, ok := assign.LHS.(*build.Ident); ok {
				names = append(names, lhs.Name)
			}
		}
	}
	return names
}

// HasPositional reports whether call has any positional argument.
func HasPositional(call *build.CallExpr) bool {
	for _, arg := range call.List {
		if _, ok := arg.(*build.AssignExpr); !ok {
			return true
		}
	}
	return false
}

// FuncName returns the function name from a CallExpr.
// Returns empty string if the call is not a simple function call
// (e.g., method calls like foo.bar()).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}
