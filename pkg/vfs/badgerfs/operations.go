package badgerfs

import (
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/marmos91/unifs/internal/fspath"
	"github.com/marmos91/unifs/pkg/vfs"
)

// Canonicalize resolves path to its canonical absolute form, following
// hard-link alias records. The final component does not need to exist.
func (fs *FS) Canonicalize(path string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var canonical string
	err := fs.view(func(txn *badger.Txn) error {
		var err error
		canonical, err = canonicalizeTxn(txn, path, true)
		return err
	})
	return canonical, err
}

// Exists reports whether path names a record in the database.
func (fs *FS) Exists(path string) (bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var exists bool
	err := fs.view(func(txn *badger.Txn) error {
		canonical, err := canonicalizeTxn(txn, path, true)
		if err != nil {
			return err
		}
		_, exists, err = getEntry(txn, canonical)
		return err
	})
	return exists, err
}

// Metadata returns a snapshot of the record at path.
func (fs *FS) Metadata(path string) (vfs.Metadata, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var meta *Metadata
	err := fs.view(func(txn *badger.Txn) error {
		canonical, err := canonicalizeTxn(txn, path, true)
		if err != nil {
			return err
		}

		rec, ok, err := getEntry(txn, canonical)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "path not found", Path: path}
		}

		meta, err = snapshotRecord(txn, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// CreateDir creates a single directory. The parent must already exist and be
// a directory.
func (fs *FS) CreateDir(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.update(func(txn *badger.Txn) error {
		return createDirTxn(txn, path)
	})
}

func createDirTxn(txn *badger.Txn, path string) error {
	canonical, err := canonicalizeTxn(txn, path, false)
	if err != nil {
		return err
	}

	if _, ok, err := getEntry(txn, canonical); err != nil {
		return err
	} else if ok {
		return &vfs.Error{Code: vfs.ErrAlreadyExists, Message: "path already exists", Path: path}
	}

	parentPath := fspath.Parent(canonical)
	parent, ok, err := getEntry(txn, parentPath)
	if err != nil {
		return err
	}
	if !ok || parent.Kind != recordDirectory {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "parent directory does not exist", Path: path}
	}

	now := time.Now()
	if err := setEntry(txn, canonical, &entryRecord{Kind: recordDirectory, Created: &now}); err != nil {
		return err
	}
	parent.addChild(fspath.Base(canonical))
	return setEntry(txn, parentPath, parent)
}

// CreateDirAll creates a directory and all missing ancestors.
func (fs *FS) CreateDirAll(path string) error {
	return fs.NewDirBuilder().Recursive(true).Create(path)
}

// Copy duplicates the file at from into to under a fresh content ID.
// Returns the number of bytes copied.
func (fs *FS) Copy(from, to string) (uint64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var copied uint64
	err := fs.update(func(txn *badger.Txn) error {
		fromCanonical, err := canonicalizeTxn(txn, from, true)
		if err != nil {
			return err
		}
		// resolve the destination too: copying onto an alias writes
		// through to its target instead of replacing the alias record
		toCanonical, err := canonicalizeTxn(txn, to, true)
		if err != nil {
			return err
		}

		src, ok, err := getEntry(txn, fromCanonical)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "source path not found", Path: from}
		}
		if src.Kind != recordFile {
			return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "source path is not a file", Path: from}
		}

		if dst, ok, err := getEntry(txn, toCanonical); err != nil {
			return err
		} else if ok {
			if dst.Kind == recordDirectory {
				return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "destination is a directory", Path: to}
			}
			// replacing a file leaves its blob orphaned otherwise
			if err := deleteBlob(txn, dst.ContentID); err != nil {
				return err
			}
		}

		parentPath := fspath.Parent(toCanonical)
		parent, ok, err := getEntry(txn, parentPath)
		if err != nil {
			return err
		}
		if !ok || parent.Kind != recordDirectory {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "destination parent directory does not exist", Path: to}
		}

		data, err := getBlob(txn, src.ContentID)
		if err != nil {
			return err
		}

		id := uuid.NewString()
		if err := setBlob(txn, id, data); err != nil {
			return err
		}

		now := time.Now()
		rec := &entryRecord{
			Kind:      recordFile,
			ContentID: id,
			Created:   &now,
			Modified:  &now,
			Accessed:  &now,
			Readonly:  src.Readonly,
		}
		if err := setEntry(txn, toCanonical, rec); err != nil {
			return err
		}
		parent.addChild(fspath.Base(toCanonical))
		if err := setEntry(txn, parentPath, parent); err != nil {
			return err
		}

		copied = uint64(len(data))
		return nil
	})
	return copied, err
}

// HardLink records a new alias at link pointing at the canonical path of
// original. Reads through link behave as reads of original.
func (fs *FS) HardLink(original, link string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.update(func(txn *badger.Txn) error {
		originalCanonical, err := canonicalizeTxn(txn, original, true)
		if err != nil {
			return err
		}
		linkCanonical, err := canonicalizeTxn(txn, link, false)
		if err != nil {
			return err
		}

		if _, ok, err := getEntry(txn, originalCanonical); err != nil {
			return err
		} else if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "original path not found", Path: original}
		}

		if _, ok, err := getEntry(txn, linkCanonical); err != nil {
			return err
		} else if ok {
			return &vfs.Error{Code: vfs.ErrAlreadyExists, Message: "link path already exists", Path: link}
		}

		parentPath := fspath.Parent(linkCanonical)
		parent, ok, err := getEntry(txn, parentPath)
		if err != nil {
			return err
		}
		if !ok || parent.Kind != recordDirectory {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "link parent directory does not exist", Path: link}
		}

		now := time.Now()
		rec := &entryRecord{
			Kind:    recordHardLink,
			Target:  originalCanonical,
			Created: &now,
		}
		if err := setEntry(txn, linkCanonical, rec); err != nil {
			return err
		}
		parent.addChild(fspath.Base(linkCanonical))
		return setEntry(txn, parentPath, parent)
	})
}

// Rename moves the record at from to to, carrying the whole subtree for
// directories. The destination must not be an existing directory.
func (fs *FS) Rename(from, to string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.update(func(txn *badger.Txn) error {
		fromCanonical, err := canonicalizeTxn(txn, from, true)
		if err != nil {
			return err
		}
		toCanonical, err := canonicalizeTxn(txn, to, false)
		if err != nil {
			return err
		}

		if fromCanonical == "/" {
			return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot rename the root directory", Path: from}
		}

		rec, ok, err := getEntry(txn, fromCanonical)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "source path not found", Path: from}
		}

		if fromCanonical == toCanonical {
			return nil
		}

		if dst, ok, err := getEntry(txn, toCanonical); err != nil {
			return err
		} else if ok && dst.Kind == recordDirectory {
			return &vfs.Error{Code: vfs.ErrAlreadyExists, Message: "destination directory already exists", Path: to}
		}

		toParentPath := fspath.Parent(toCanonical)
		toParent, ok, err := getEntry(txn, toParentPath)
		if err != nil {
			return err
		}
		if !ok || toParent.Kind != recordDirectory {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "destination parent directory does not exist", Path: to}
		}

		now := time.Now()

		// Move descendants first, rewriting their keys. Files and alias
		// records get fresh times; directory records keep theirs.
		if rec.Kind == recordDirectory {
			moves, err := collectSubtree(txn, fromCanonical)
			if err != nil {
				return err
			}
			for _, m := range moves {
				if err := txn.Delete(entryKey(m.path)); err != nil {
					return err
				}
				if m.rec.Kind != recordDirectory {
					m.rec.Accessed = &now
					m.rec.Modified = &now
				}
				newPath := toCanonical + m.path[len(fromCanonical):]
				if err := setEntry(txn, newPath, m.rec); err != nil {
					return err
				}
			}
		}

		if err := txn.Delete(entryKey(fromCanonical)); err != nil {
			return err
		}
		rec.Accessed = &now
		rec.Modified = &now
		if err := setEntry(txn, toCanonical, rec); err != nil {
			return err
		}

		fromParentPath := fspath.Parent(fromCanonical)
		if fromParentPath == toParentPath {
			toParent.removeChild(fspath.Base(fromCanonical))
			toParent.addChild(fspath.Base(toCanonical))
			return setEntry(txn, toParentPath, toParent)
		}

		if fromParent, ok, err := getEntry(txn, fromParentPath); err != nil {
			return err
		} else if ok && fromParent.Kind == recordDirectory {
			fromParent.removeChild(fspath.Base(fromCanonical))
			if err := setEntry(txn, fromParentPath, fromParent); err != nil {
				return err
			}
		}
		toParent.addChild(fspath.Base(toCanonical))
		return setEntry(txn, toParentPath, toParent)
	})
}

// subtreeEntry pairs a canonical path with its decoded record.
type subtreeEntry struct {
	path string
	rec  *entryRecord
}

// collectSubtree materializes every record strictly below root. Collecting
// before mutating keeps iterator state and writes apart.
func collectSubtree(txn *badger.Txn, root string) ([]subtreeEntry, error) {
	prefix := []byte(entryPrefix + root + "/")

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var entries []subtreeEntry
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		path := strings.TrimPrefix(string(item.Key()), entryPrefix)

		var rec entryRecord
		err := item.Value(func(val []byte) error {
			return decodeRecord(val, &rec)
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, subtreeEntry{path: path, rec: &rec})
	}
	return entries, nil
}

// RemoveDir removes an empty directory. The root cannot be removed.
func (fs *FS) RemoveDir(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.update(func(txn *badger.Txn) error {
		canonical, err := canonicalizeTxn(txn, path, true)
		if err != nil {
			return err
		}

		rec, ok, err := getEntry(txn, canonical)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "directory not found", Path: path}
		}
		if rec.Kind != recordDirectory {
			return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a directory", Path: path}
		}
		if canonical == "/" {
			return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot remove the root directory", Path: path}
		}
		if len(rec.Children) > 0 {
			return &vfs.Error{Code: vfs.ErrDirectoryNotEmpty, Message: "directory is not empty", Path: path}
		}

		if err := txn.Delete(entryKey(canonical)); err != nil {
			return err
		}
		return unlinkFromParentTxn(txn, canonical)
	})
}

// RemoveDirAll removes the directory at path and everything below it,
// including the content blobs of removed files.
func (fs *FS) RemoveDirAll(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.update(func(txn *badger.Txn) error {
		canonical, err := canonicalizeTxn(txn, path, true)
		if err != nil {
			return err
		}

		rec, ok, err := getEntry(txn, canonical)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "directory not found", Path: path}
		}
		if rec.Kind != recordDirectory {
			return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a directory", Path: path}
		}
		if canonical == "/" {
			return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot remove the root directory", Path: path}
		}

		subtree, err := collectSubtree(txn, canonical)
		if err != nil {
			return err
		}
		for _, e := range subtree {
			if err := txn.Delete(entryKey(e.path)); err != nil {
				return err
			}
			if e.rec.Kind == recordFile {
				if err := deleteBlob(txn, e.rec.ContentID); err != nil {
					return err
				}
			}
		}

		if err := txn.Delete(entryKey(canonical)); err != nil {
			return err
		}
		return unlinkFromParentTxn(txn, canonical)
	})
}

// RemoveFile removes a regular file and its content blob. Removing through
// an alias record removes the target, leaving the alias dangling.
func (fs *FS) RemoveFile(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.update(func(txn *badger.Txn) error {
		canonical, err := canonicalizeTxn(txn, path, true)
		if err != nil {
			return err
		}

		rec, ok, err := getEntry(txn, canonical)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "file not found", Path: path}
		}
		if rec.Kind != recordFile {
			return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a file", Path: path}
		}

		if err := txn.Delete(entryKey(canonical)); err != nil {
			return err
		}
		if err := deleteBlob(txn, rec.ContentID); err != nil {
			return err
		}
		return unlinkFromParentTxn(txn, canonical)
	})
}

func unlinkFromParentTxn(txn *badger.Txn, canonical string) error {
	parentPath := fspath.Parent(canonical)
	parent, ok, err := getEntry(txn, parentPath)
	if err != nil {
		return err
	}
	if !ok || parent.Kind != recordDirectory {
		return nil
	}
	parent.removeChild(fspath.Base(canonical))
	return setEntry(txn, parentPath, parent)
}

// ReadDir lists the directory at path. Entries are materialized snapshots,
// sorted by name; alias records surface with a symlink file type.
func (fs *FS) ReadDir(path string) ([]vfs.DirEntry, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var entries []vfs.DirEntry
	err := fs.view(func(txn *badger.Txn) error {
		canonical, err := canonicalizeTxn(txn, path, true)
		if err != nil {
			return err
		}

		rec, ok, err := getEntry(txn, canonical)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "directory not found", Path: path}
		}
		if rec.Kind != recordDirectory {
			return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a directory", Path: path}
		}

		names := append([]string(nil), rec.Children...)
		sort.Strings(names)

		entries = make([]vfs.DirEntry, 0, len(names))
		for _, name := range names {
			childPath := fspath.Join(canonical, name)
			child, ok, err := getEntry(txn, childPath)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			meta, err := snapshotRecord(txn, child)
			if err != nil {
				return err
			}
			entries = append(entries, &DirEntry{path: childPath, name: name, meta: meta})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadLink always fails: the badger filesystem has no symbolic links.
func (fs *FS) ReadLink(path string) (string, error) {
	return "", &vfs.Error{
		Code:    vfs.ErrUnsupported,
		Message: "symbolic links are not supported by the badger filesystem",
		Path:    path,
	}
}

// SymlinkMetadata always fails: the badger filesystem has no symbolic links.
func (fs *FS) SymlinkMetadata(path string) (vfs.Metadata, error) {
	return nil, &vfs.Error{
		Code:    vfs.ErrUnsupported,
		Message: "symbolic links are not supported by the badger filesystem",
		Path:    path,
	}
}

// SetPermissions replaces the permissions of the record at path and
// refreshes its modification time.
func (fs *FS) SetPermissions(path string, perm vfs.Permissions) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.update(func(txn *badger.Txn) error {
		canonical, err := canonicalizeTxn(txn, path, true)
		if err != nil {
			return err
		}

		rec, ok, err := getEntry(txn, canonical)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "path not found", Path: path}
		}

		rec.Readonly = perm.Readonly()
		now := time.Now()
		rec.Modified = &now
		return setEntry(txn, canonical, rec)
	})
}

// OpenFile opens an existing file for reading.
func (fs *FS) OpenFile(path string) (vfs.File, error) {
	return fs.NewOpenOptions().Read(true).Open(path)
}

// CreateFile opens a file for writing, creating it if missing and truncating
// it if present.
func (fs *FS) CreateFile(path string) (vfs.File, error) {
	return fs.NewOpenOptions().Write(true).Create(true).Truncate(true).Open(path)
}

// CreateNewFile creates a file open for reading and writing, failing if the
// path already exists.
func (fs *FS) CreateNewFile(path string) (vfs.File, error) {
	return fs.NewOpenOptions().Read(true).Write(true).CreateNew(true).Open(path)
}

// Read returns the entire contents of the file at path.
func (fs *FS) Read(path string) ([]byte, error) {
	f, err := fs.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ReadToString returns the contents of the file at path as a string.
func (fs *FS) ReadToString(path string) (string, error) {
	data, err := fs.Read(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &vfs.Error{Code: vfs.ErrOther, Message: "stream did not contain valid UTF-8", Path: path}
	}
	return string(data), nil
}

// Write replaces the contents of the file at path, creating it if missing.
func (fs *FS) Write(path string, data []byte) error {
	f, err := fs.CreateFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}
	return nil
}
