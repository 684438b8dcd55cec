package memfs

import (
	"strings"

	"github.com/marmos91/unifs/internal/fspath"
	"github.com/marmos91/unifs/pkg/vfs"
)

// LoadFromDir builds a new in-memory filesystem from the subtree rooted at
// root on another filesystem. Directories and regular files are imported;
// symbolic links are skipped since the in-memory filesystem cannot represent
// them.
func LoadFromDir(src vfs.FileSystem, root string) (*FS, error) {
	canonicalRoot, err := src.Canonicalize(root)
	if err != nil {
		return nil, err
	}

	fs := New()

	err = vfs.Walk(src, canonicalRoot, func(entry vfs.DirEntry) error {
		rel := strings.TrimPrefix(entry.Path(), canonicalRoot)
		if rel == "" {
			return nil
		}
		dest := "/" + strings.TrimPrefix(rel, "/")

		fileType, err := entry.FileType()
		if err != nil {
			return err
		}

		switch {
		case fileType.IsDir():
			return fs.CreateDirAll(dest)
		case fileType.IsFile():
			data, err := src.Read(entry.Path())
			if err != nil {
				return err
			}
			if err := fs.CreateDirAll(fspath.Parent(dest)); err != nil {
				return err
			}
			return fs.Write(dest, data)
		default:
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	return fs, nil
}
