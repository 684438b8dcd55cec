// Package fspath implements the path algebra shared by the table-model
// backends (in-memory and badger): canonical absolute slash-separated paths
// with no dot components.
package fspath

import (
	"strings"

	"github.com/marmos91/unifs/pkg/vfs"
)

// Normalize reduces a path to its canonical absolute form: empty and "."
// components are dropped, ".." components pop the previous one, and relative
// paths are rooted at "/". Popping past the root fails with NotFound.
func Normalize(path string) (string, error) {
	parts := make([]string, 0, 8)

	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
		case "..":
			if len(parts) == 0 {
				return "", &vfs.Error{
					Code:    vfs.ErrNotFound,
					Message: "no parent directory",
					Path:    path,
				}
			}
			parts = parts[:len(parts)-1]
		default:
			parts = append(parts, part)
		}
	}

	return "/" + strings.Join(parts, "/"), nil
}

// Join appends a single name to a canonical directory path.
func Join(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

// Split returns the components of a canonical absolute path.
func Split(canonical string) []string {
	if canonical == "/" {
		return nil
	}
	return strings.Split(canonical[1:], "/")
}

// Parent returns the parent of a canonical absolute path.
func Parent(canonical string) string {
	idx := strings.LastIndexByte(canonical, '/')
	if idx <= 0 {
		return "/"
	}
	return canonical[:idx]
}

// Base returns the last component of a canonical absolute path.
func Base(canonical string) string {
	idx := strings.LastIndexByte(canonical, '/')
	return canonical[idx+1:]
}
