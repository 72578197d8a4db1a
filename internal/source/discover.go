// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoInput is returned by Discover when neither paths nor patterns
// yield a file.
var ErrNoInput = errors.New("no input files")

// Discover resolves a task's inputs. Explicit paths keep their order and
// come first; each pattern then contributes its regular-file matches in
// lexical order. Patterns use doublestar syntax, so "**" matches any number
// of directories. A file is listed once even if several inputs name it.
func Discover(paths, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}

	for _, p := range paths {
		add(p)
	}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		slices.Sort(matches)
		for _, name := range matches {
			info, err := os.Lstat(name)
			if err != nil {
				continue
			}
			if info.Mode().IsRegular() {
				add(name)
			}
		}
	}

	if len(files) == 0 {
		return nil, ErrNoInput
	}
	return files, nil
}
