// Package filex holds local filesystem helpers for downloaded documents.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// EnsureDir creates dir (and parents) if needed and returns its absolute path.
// A relative dir is resolved against the working directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err == nil {
		return fi.Mode().IsRegular(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// SafeName turns an arbitrary title into a single path element: runs of
// whitespace become "_", separators and characters rejected by common
// filesystems become "_", letters in any script are kept.
func SafeName(title string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteRune('_')
			}
			inSpace = true
			continue
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
		inSpace = false
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "document"
	}
	return name
}
