//go:build tools

// Package lint pins the linters used on go-pusimp.
// It is a separate module so that the main go.mod only lists what the
// library and the pusimp command import.
//
// Usage from project root:
//
//	go run -modfile=tools/lint/go.mod github.com/golangci/golangci-lint/v2/cmd/golangci-lint run ./...
//	go run -modfile=tools/lint/go.mod honnef.co/go/tools/cmd/staticcheck ./...
package lint
