// Package sandbox resolves every user-supplied path the DSL touches
// against a declared root and refuses anything that would escape it,
// symlinks included.
package sandbox

import (
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/filesdsl/filesdsl/fdslerr"
)

// Root is a sandbox boundary: every path resolved through it is
// guaranteed to land inside (or at) the root directory.
type Root struct {
	abs string
}

// NewRoot declares a sandbox root. The root itself is not required to
// exist yet; existence is checked by individual operations.
func NewRoot(path string) (*Root, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("cannot resolve sandbox root %q: %s", path, err)
	}
	return &Root{abs: abs}, nil
}

// Path returns the root's absolute path.
func (r *Root) Path() string { return r.abs }

// Resolve joins cwd (itself checked to lie inside the root) and rel,
// following symlinks safely via filepath-securejoin, and asserts the
// result lies inside the root. cwd may be empty, in which case rel is
// resolved directly against the root.
func (r *Root) Resolve(cwd, rel string) (string, error) {
	base := r.abs
	if cwd != "" {
		resolvedCwd, err := r.Resolve("", relFromRoot(r.abs, cwd))
		if err != nil {
			return "", err
		}
		base = resolvedCwd
	}

	var target string
	if filepath.IsAbs(rel) {
		target = filepath.Clean(rel)
	} else {
		target = filepath.Join(base, rel)
	}
	if !withinRoot(r.abs, target) {
		return "", &fdslerr.SandboxError{Path: rel, Root: r.abs}
	}

	joined, err := securejoin.SecureJoin(r.abs, relFromRoot(r.abs, target))
	if err != nil {
		return "", &fdslerr.SandboxError{Path: rel, Root: r.abs}
	}
	// SecureJoin re-roots a symlink pointing outside r.abs instead of
	// failing, so an existing target is also checked with its symlinks
	// followed as the OS would follow them.
	if real, err := filepath.EvalSymlinks(target); err == nil {
		rootReal, rootErr := filepath.EvalSymlinks(r.abs)
		if rootErr != nil {
			rootReal = r.abs
		}
		if !withinRoot(rootReal, real) {
			return "", &fdslerr.SandboxError{Path: rel, Root: r.abs}
		}
	}
	if !withinRoot(r.abs, joined) {
		return "", &fdslerr.SandboxError{Path: rel, Root: r.abs}
	}
	return joined, nil
}

// relFromRoot best-effort rewrites an absolute path as a path relative
// to root so it can be fed through SecureJoin, which always treats its
// second argument as relative to its first. Paths already outside root
// fall through unchanged and are caught by withinRoot afterwards.
func relFromRoot(root, path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

func withinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}

// Exists reports whether path exists on disk (any type).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
