package pusimp

import (
	"context"
	"sync"
)

// ImportCache memoises the first result of each import, like the module
// table of an interpreter: once a module has been imported (or failed to
// import), later checks see the same result even if the filesystem changed.
//
// Record models the "import dependencies first, check afterwards" ordering:
// a caller that already imported a module registers the result, and the
// checker then classifies that result instead of importing again.
//
// ImportCache is safe for concurrent use.
type ImportCache struct {
	next Resolver

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	path string
	err  error
}

// NewImportCache wraps next. A nil next makes every uncached import fail
// with ErrModuleNotFound.
func NewImportCache(next Resolver) *ImportCache {
	return &ImportCache{
		next:    next,
		entries: make(map[string]cacheEntry),
	}
}

// Resolve returns the cached result for importName, resolving it first if needed.
// Errors returned while ctx is done are not cached.
func (c *ImportCache) Resolve(ctx context.Context, importName string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[importName]; ok {
		return e.path, e.err
	}

	if c.next == nil {
		err := &ResolveError{ImportName: importName, Err: ErrModuleNotFound}
		c.entries[importName] = cacheEntry{err: err}
		return "", err
	}

	path, err := c.next.Resolve(ctx, importName)
	if err != nil && isContextErr(ctx, err) {
		return "", err
	}
	c.entries[importName] = cacheEntry{path: path, err: err}
	return path, err
}

// Record stores the outcome of an import performed elsewhere. It overwrites
// any previous entry.
func (c *ImportCache) Record(importName, path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[importName] = cacheEntry{path: path, err: err}
}

// Lookup returns the cached entry for importName, if any.
func (c *ImportCache) Lookup(importName string) (Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[importName]
	return Resolution{Path: e.path, Err: e.err}, ok
}

// Forget drops importName so that the next Resolve imports it again.
func (c *ImportCache) Forget(importName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, importName)
}

// Len returns the number of cached imports.
func (c *ImportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
