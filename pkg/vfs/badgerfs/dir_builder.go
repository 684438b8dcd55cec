package badgerfs

import (
	badger "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/unifs/internal/fspath"
	"github.com/marmos91/unifs/pkg/vfs"
)

// DirBuilder creates directories on a badger-backed filesystem.
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

	return fs.update(func(txn *badger.Txn) error {
		canonical, err := canonicalizeTxn(txn, path, true)
		if err != nil {
			return err
		}

		if !b.recursive {
			return createDirTxn(txn, canonical)
		}

		if _, ok, err := getEntry(txn, canonical); err != nil {
			return err
		} else if ok {
			return nil
		}

		var missing []string
		for current := canonical; current != "/"; current = fspath.Parent(current) {
			_, ok, err := getEntry(txn, current)
			if err != nil {
				return err
			}
			if ok {
				break
			}
			missing = append(missing, current)
		}

		for i := len(missing) - 1; i >= 0; i-- {
			if err := createDirTxn(txn, missing[i]); err != nil {
				return err
			}
		}

		return nil
	})
}
