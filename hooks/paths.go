package hooks

import (
	"path/filepath"
)

// MakeRelative rewrites an absolute path relative to cwd so file lists
// sent to the server don't leak home-directory layouts. Relativization is
// best-effort: a path that can't be made relative (different volume, or
// not absolute to begin with) passes through unchanged.
func MakeRelative(path, cwd string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}

// MakeRelativeAll applies MakeRelative to every path.
func MakeRelativeAll(paths []string, cwd string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = MakeRelative(p, cwd)
	}
	return out
}
