package utils

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// FindFiles recursively finds all files under dir matching pattern.
//
// A pattern without a '/' is matched against the file's base name (so "*.h"
// finds headers at any depth). A pattern containing '/' is matched against the
// slash-separated path relative to dir and may use '**'.
// Results are returned in lexical walk order.
func FindFiles(dir, pattern string) ([]string, error) {
	if _, err := doublestar.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var files []string
	matchPath := strings.Contains(pattern, "/")

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if d.IsDir() {
			return nil
		}

		candidate := d.Name()
		if matchPath {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			candidate = filepath.ToSlash(rel)
		}

		matched, err := doublestar.Match(pattern, candidate)
		if err != nil {
			return err
		}
		if matched {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
