package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SafeRel returns target relative to base with forward slashes, refusing
// results that escape base.
func SafeRel(base, target string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path traversal detected: %s escapes %s", target, base)
	}
	return rel, nil
}

// WriteFileVFS writes data to path on fs, creating parent directories.
func WriteFileVFS(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write VFS file %s: %w", path, err)
	}
	return nil
}
