package pusimp

import "context"

// Resolver performs the import of a dependency and reports where it was
// loaded from.
//
// Resolve returns the resolved file path of the module (the equivalent of
// its __file__ attribute). Any error other than a context error is treated
// as an import failure, and its text is shown to the user.
type Resolver interface {
	Resolve(ctx context.Context, importName string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, importName string) (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, importName string) (string, error) {
	return f(ctx, importName)
}

// Compile-time interface compliance checks
var (
	_ Resolver = ResolverFunc(nil)
	_ Resolver = (*SearchPathResolver)(nil)
	_ Resolver = (*InterpreterResolver)(nil)
	_ Resolver = (*ImportCache)(nil)
	_ Resolver = StaticResolver(nil)
	_ Resolver = (*FailingResolver)(nil)
)
