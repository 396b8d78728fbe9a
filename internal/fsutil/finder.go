// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathNotFound is returned by FindFiles for a path that does not exist.
var ErrPathNotFound = errors.New("path does not exist")

// FindFiles walks every path and returns a flat, de-duplicated list of the
// files whose extension (compared case-insensitively) is one of exts. A path
// may be a file or a directory. A path that does not exist is an error
// wrapping ErrPathNotFound.
func FindFiles(paths []string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if !hasExtension(p, exts) {
			return
		}
		if _, wasSeen := seen[p]; !wasSeen {
			files = append(files, p)
			seen[p] = struct{}{}
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
			}
			return nil, fmt.Errorf("error accessing path %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
