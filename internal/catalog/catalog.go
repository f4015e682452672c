// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog lists the forms currently saved on disk. The listing is
// the catalog the match stage ranks against; it is rebuilt on every call.
package catalog

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// List returns the names of the regular files directly inside dir, sorted
// lexicographically. Subdirectories and other non-regular entries are
// skipped. A missing dir is reported on w and yields an empty list with a
// nil error: nothing has been downloaded yet.
func List(dir string, w io.Writer) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "forms directory %s not found\n", dir)
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading forms directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !isRegular(dir, entry) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// isRegular reports whether entry is a regular file. Symlinks are followed,
// so a link to a PDF counts and a link to a directory does not.
func isRegular(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
