package pusimp

import (
	"context"
	"errors"
	"sync"
)

// Resolution is the canned result of a StaticResolver entry.
type Resolution struct {
	Path string
	Err  error
}

// StaticResolver resolves import names from a fixed table.
// Names absent from the table fail with ErrModuleNotFound.
// Useful for testing packages that call Check.
type StaticResolver map[string]Resolution

// Resolve looks importName up in the table.
func (s StaticResolver) Resolve(ctx context.Context, importName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, ok := s[importName]
	if !ok {
		return "", &ResolveError{ImportName: importName, Err: ErrModuleNotFound}
	}
	return res.Path, res.Err
}

// FailingResolver fails every import with Err and records the names it was asked for.
// Useful for asserting which dependencies were (not) imported.
type FailingResolver struct {
	Err error

	mu    sync.Mutex
	calls []string
}

// NewFailingResolver creates a resolver that always fails with err.
func NewFailingResolver(err error) *FailingResolver {
	if err == nil {
		err = errors.New("import failed")
	}
	return &FailingResolver{Err: err}
}

// Resolve records the call and returns r.Err.
func (r *FailingResolver) Resolve(ctx context.Context, importName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, importName)
	return "", r.Err
}

// Calls returns the import names requested so far.
func (r *FailingResolver) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
