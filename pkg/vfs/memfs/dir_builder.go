package memfs

import (
	"github.com/marmos91/unifs/internal/fspath"
	"github.com/marmos91/unifs/pkg/vfs"
)

// DirBuilder creates directories on an in-memory filesystem.
type DirBuilder struct {
	fs        *FS
	recursive bool
}

var _ vfs.DirBuilder = (*DirBuilder)(nil)

// NewDirBuilder returns a directory builder for this filesystem.
func (fs *FS) NewDirBuilder() vfs.DirBuilder {
	return &DirBuilder{fs: fs}
}

func (b *DirBuilder) Recursive(recursive bool) vfs.DirBuilder {
	b.recursive = recursive
	return b
}

// Create creates the directory at path. In recursive mode missing ancestors
// are created top-down and an already existing directory is not an error.
func (b *DirBuilder) Create(path string) error {
	fs := b.fs

	fs.mu.Lock()
	defer fs.mu.Unlock()

	canonical, err := fs.canonicalizeLocked(path, true)
	if err != nil {
		return err
	}

	if !b.recursive {
		return fs.createDirLocked(canonical)
	}

	if _, ok := fs.entries[canonical]; ok {
		return nil
	}

	var missing []string
	for current := canonical; current != "/"; current = fspath.Parent(current) {
		if _, ok := fs.entries[current]; ok {
			break
		}
		missing = append(missing, current)
	}

	for i := len(missing) - 1; i >= 0; i-- {
		if err := fs.createDirLocked(missing[i]); err != nil {
			return err
		}
	}

	return nil
}
