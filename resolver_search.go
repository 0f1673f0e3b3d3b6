package pusimp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// SearchPathResolver resolves modules the way an interpreter walks its
// search path: directories are tried in order and the first one that
// contains the module wins, so an earlier user-site directory shadows a
// later system directory.
//
// For an import name "a.b" and a directory D, the candidates are, in order:
//
//	D/a/b/__init__.py   (package)
//	D/a/b.py            (single-file module)
//
// The returned path is built as D + "/" + relative path, without cleaning,
// so that it can be compared byte for byte with a Guard's expected path.
type SearchPathResolver struct {
	dirs []string
}

// NewSearchPathResolver creates a resolver over dirs, highest priority first.
// Trailing slashes are trimmed; nothing else is normalised.
func NewSearchPathResolver(dirs ...string) *SearchPathResolver {
	cleaned := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if trimmed := strings.TrimRight(d, "/"); trimmed != "" {
			d = trimmed
		}
		cleaned = append(cleaned, d)
	}
	return &SearchPathResolver{dirs: cleaned}
}

// Dirs returns the search path in priority order.
func (r *SearchPathResolver) Dirs() []string {
	return append([]string(nil), r.dirs...)
}

// Resolve returns the first matching file along the search path.
func (r *SearchPathResolver) Resolve(ctx context.Context, importName string) (string, error) {
	rel := strings.ReplaceAll(importName, ".", "/")
	candidates := []string{
		rel + "/" + InitFile,
		rel + ".py",
	}

	for _, dir := range r.dirs {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		for _, c := range candidates {
			p := dir + "/" + c
			info, err := os.Stat(filepath.FromSlash(p))
			if err == nil && !info.IsDir() {
				return p, nil
			}
		}
	}

	return "", &ResolveError{ImportName: importName, Err: ErrModuleNotFound,
		Message: "No module named '" + importName + "'"}
}
