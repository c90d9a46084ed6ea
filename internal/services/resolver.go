package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ResolvedFile describes a file confined to the resolver's root.
type ResolvedFile struct {
	// Path is the canonical absolute path (symlinks resolved).
	Path string

	// Size is the file size in bytes.
	Size int64
}

// PathResolver turns caller-supplied relative paths into safe absolute paths
// confined to a fixed root directory. Inputs containing traversal segments,
// absolute paths or symlinks pointing outside the root are rejected with
// ErrPathTraversal; missing or non-regular files with ErrNotFound.
type PathResolver struct {
	root string
}

// NewPathResolver canonicalizes the root once at startup. The root must
// exist and be a directory.
func NewPathResolver(root string) (*PathResolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root %q: %w", root, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat upload root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("upload root %q is not a directory", root)
	}

	return &PathResolver{root: canonical}, nil
}

// Root returns the canonical root directory.
func (r *PathResolver) Root() string {
	return r.root
}

// Resolve validates p against the root and returns the canonical file.
func (r *PathResolver) Resolve(p string) (*ResolvedFile, error) {
	if p == "" {
		return nil, ErrNotFound
	}

	// Absolute inputs are rejected outright; callers address files
	// relative to the root only.
	if filepath.IsAbs(p) {
		return nil, ErrPathTraversal
	}

	// Lexical normalization catches plain ../ traversal before any
	// filesystem access.
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return nil, ErrPathTraversal
	}

	joined := filepath.Join(r.root, cleaned)

	// Canonicalize to defeat symlink-based escapes, then verify the result
	// still lives under the canonical root.
	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve %q: %w", p, err)
	}

	if !r.contains(canonical) {
		return nil, ErrPathTraversal
	}

	info, err := os.Stat(canonical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %q: %w", p, err)
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}

	return &ResolvedFile{
		Path: canonical,
		Size: info.Size(),
	}, nil
}

// contains reports whether path equals the root or is a descendant of it,
// compared on whole path components.
func (r *PathResolver) contains(path string) bool {
	if path == r.root {
		return true
	}
	return strings.HasPrefix(path, r.root+string(filepath.Separator))
}
