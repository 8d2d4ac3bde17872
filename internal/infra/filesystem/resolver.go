package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Resolver canonicalizes paths against the real filesystem.
type Resolver struct{}

// Canonicalize resolves every symlink in path. When the path does not exist,
// the deepest existing ancestor is resolved and the missing suffix is
// re-attached literally. A link that exists but cannot be followed is an error.
func (Resolver) Canonicalize(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return canonicalize(absPath)
}

func (Resolver) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func canonicalize(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("resolve symlinks: %w", err)
	}

	if _, lstatErr := os.Lstat(path); lstatErr == nil {
		return "", fmt.Errorf("dangling symlink %s: %w", path, err)
	} else if !errors.Is(lstatErr, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", path, lstatErr)
	}

	parent := filepath.Dir(path)
	if parent == path {
		return "", fmt.Errorf("resolve symlinks: %w", err)
	}
	resolvedParent, err := canonicalize(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}
