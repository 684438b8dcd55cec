package memfs

import (
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/marmos91/unifs/internal/fspath"
	"github.com/marmos91/unifs/pkg/vfs"
)

// Canonicalize resolves path to its canonical absolute form, following
// hard-link alias entries. The final component does not need to exist.
func (fs *FS) Canonicalize(path string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.canonicalizeLocked(path, true)
}

// Exists reports whether path names an entry in the table.
func (fs *FS) Exists(path string) (bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	canonical, err := fs.canonicalizeLocked(path, true)
	if err != nil {
		return false, err
	}

	_, ok := fs.entries[canonical]
	return ok, nil
}

// Metadata returns a snapshot of the entry at path.
func (fs *FS) Metadata(path string) (vfs.Metadata, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	canonical, err := fs.canonicalizeLocked(path, true)
	if err != nil {
		return nil, err
	}

	e, ok := fs.entries[canonical]
	if !ok {
		return nil, &vfs.Error{Code: vfs.ErrNotFound, Message: "path not found", Path: path}
	}

	return e.snapshotLocked(), nil
}

// CreateDir creates a single directory. The parent must already exist and be
// a directory.
func (fs *FS) CreateDir(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.createDirLocked(path)
}

func (fs *FS) createDirLocked(path string) error {
	canonical, err := fs.canonicalizeLocked(path, false)
	if err != nil {
		return err
	}

	if _, ok := fs.entries[canonical]; ok {
		return &vfs.Error{Code: vfs.ErrAlreadyExists, Message: "path already exists", Path: path}
	}

	parent, ok := fs.entries[fspath.Parent(canonical)]
	if !ok || parent.kind != kindDirectory {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "parent directory does not exist", Path: path}
	}

	fs.entries[canonical] = newDirEntry()
	parent.children[fspath.Base(canonical)] = struct{}{}
	return nil
}

// CreateDirAll creates a directory and all missing ancestors.
func (fs *FS) CreateDirAll(path string) error {
	return fs.NewDirBuilder().Recursive(true).Create(path)
}

// Copy duplicates the file at from into to, deep-copying the contents.
// Returns the number of bytes copied.
func (fs *FS) Copy(from, to string) (uint64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fromCanonical, err := fs.canonicalizeLocked(from, true)
	if err != nil {
		return 0, err
	}

	// resolve the destination too: copying onto an alias writes through
	// to its target instead of replacing the alias entry
	toCanonical, err := fs.canonicalizeLocked(to, true)
	if err != nil {
		return 0, err
	}

	src, ok := fs.entries[fromCanonical]
	if !ok {
		return 0, &vfs.Error{Code: vfs.ErrNotFound, Message: "source path not found", Path: from}
	}
	if src.kind != kindFile {
		return 0, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "source path is not a file", Path: from}
	}

	if dst, ok := fs.entries[toCanonical]; ok && dst.kind == kindDirectory {
		return 0, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "destination is a directory", Path: to}
	}

	parent, ok := fs.entries[fspath.Parent(toCanonical)]
	if !ok || parent.kind != kindDirectory {
		return 0, &vfs.Error{Code: vfs.ErrNotFound, Message: "destination parent directory does not exist", Path: to}
	}

	src.buf.mu.RLock()
	data := append([]byte(nil), src.buf.data...)
	src.buf.mu.RUnlock()

	now := time.Now()
	fs.entries[toCanonical] = &entry{
		kind:     kindFile,
		buf:      &buffer{data: data},
		created:  now,
		modified: now,
		accessed: now,
		readonly: src.readonly,
	}
	parent.children[fspath.Base(toCanonical)] = struct{}{}

	return uint64(len(data)), nil
}

// HardLink records a new alias entry at link pointing at the canonical path
// of original. Reads through link behave as reads of original.
func (fs *FS) HardLink(original, link string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	originalCanonical, err := fs.canonicalizeLocked(original, true)
	if err != nil {
		return err
	}

	linkCanonical, err := fs.canonicalizeLocked(link, false)
	if err != nil {
		return err
	}

	if _, ok := fs.entries[originalCanonical]; !ok {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "original path not found", Path: original}
	}

	if _, ok := fs.entries[linkCanonical]; ok {
		return &vfs.Error{Code: vfs.ErrAlreadyExists, Message: "link path already exists", Path: link}
	}

	parent, ok := fs.entries[fspath.Parent(linkCanonical)]
	if !ok || parent.kind != kindDirectory {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "link parent directory does not exist", Path: link}
	}

	fs.entries[linkCanonical] = &entry{
		kind:    kindHardLink,
		target:  originalCanonical,
		created: time.Now(),
	}
	parent.children[fspath.Base(linkCanonical)] = struct{}{}
	return nil
}

// Rename moves the entry at from to to, carrying the whole subtree for
// directories. The destination must not be an existing directory.
func (fs *FS) Rename(from, to string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fromCanonical, err := fs.canonicalizeLocked(from, true)
	if err != nil {
		return err
	}

	toCanonical, err := fs.canonicalizeLocked(to, false)
	if err != nil {
		return err
	}

	if fromCanonical == "/" {
		return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot rename the root directory", Path: from}
	}

	e, ok := fs.entries[fromCanonical]
	if !ok {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "source path not found", Path: from}
	}

	if fromCanonical == toCanonical {
		return nil
	}

	if dst, ok := fs.entries[toCanonical]; ok && dst.kind == kindDirectory {
		return &vfs.Error{Code: vfs.ErrAlreadyExists, Message: "destination directory already exists", Path: to}
	}

	toParent, ok := fs.entries[fspath.Parent(toCanonical)]
	if !ok || toParent.kind != kindDirectory {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "destination parent directory does not exist", Path: to}
	}

	now := time.Now()

	// Move descendants first, rewriting their table keys. Files and alias
	// entries get fresh times; directory rows keep theirs.
	if e.kind == kindDirectory {
		prefix := fromCanonical + "/"

		type move struct {
			oldKey string
			newKey string
		}
		var moves []move
		for key := range fs.entries {
			if strings.HasPrefix(key, prefix) {
				moves = append(moves, move{key, toCanonical + key[len(fromCanonical):]})
			}
		}

		for _, m := range moves {
			child := fs.entries[m.oldKey]
			delete(fs.entries, m.oldKey)
			if child.kind != kindDirectory {
				child.accessed = now
				child.modified = now
			}
			fs.entries[m.newKey] = child
		}
	}

	delete(fs.entries, fromCanonical)
	e.accessed = now
	e.modified = now
	fs.entries[toCanonical] = e

	if fromParent, ok := fs.entries[fspath.Parent(fromCanonical)]; ok {
		delete(fromParent.children, fspath.Base(fromCanonical))
	}
	toParent.children[fspath.Base(toCanonical)] = struct{}{}

	return nil
}

// RemoveDir removes an empty directory. The root cannot be removed.
func (fs *FS) RemoveDir(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	canonical, err := fs.canonicalizeLocked(path, true)
	if err != nil {
		return err
	}

	e, ok := fs.entries[canonical]
	if !ok {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "directory not found", Path: path}
	}
	if e.kind != kindDirectory {
		return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a directory", Path: path}
	}
	if canonical == "/" {
		return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot remove the root directory", Path: path}
	}
	if len(e.children) > 0 {
		return &vfs.Error{Code: vfs.ErrDirectoryNotEmpty, Message: "directory is not empty", Path: path}
	}

	delete(fs.entries, canonical)
	fs.unlinkFromParentLocked(canonical)
	return nil
}

// RemoveDirAll removes the directory at path and everything below it.
func (fs *FS) RemoveDirAll(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	canonical, err := fs.canonicalizeLocked(path, true)
	if err != nil {
		return err
	}

	e, ok := fs.entries[canonical]
	if !ok {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "directory not found", Path: path}
	}
	if e.kind != kindDirectory {
		return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a directory", Path: path}
	}
	if canonical == "/" {
		return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot remove the root directory", Path: path}
	}

	prefix := canonical + "/"
	for key := range fs.entries {
		if strings.HasPrefix(key, prefix) {
			delete(fs.entries, key)
		}
	}

	delete(fs.entries, canonical)
	fs.unlinkFromParentLocked(canonical)
	return nil
}

// RemoveFile removes a regular file. Removing through an alias entry removes
// the target, leaving the alias dangling.
func (fs *FS) RemoveFile(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	canonical, err := fs.canonicalizeLocked(path, true)
	if err != nil {
		return err
	}

	e, ok := fs.entries[canonical]
	if !ok {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "file not found", Path: path}
	}
	if e.kind != kindFile {
		return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a file", Path: path}
	}

	delete(fs.entries, canonical)
	fs.unlinkFromParentLocked(canonical)
	return nil
}

func (fs *FS) unlinkFromParentLocked(canonical string) {
	if parent, ok := fs.entries[fspath.Parent(canonical)]; ok && parent.kind == kindDirectory {
		delete(parent.children, fspath.Base(canonical))
	}
}

// ReadDir lists the directory at path. Entries are materialized snapshots,
// sorted by name; alias entries surface with a symlink file type.
func (fs *FS) ReadDir(path string) ([]vfs.DirEntry, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	canonical, err := fs.canonicalizeLocked(path, true)
	if err != nil {
		return nil, err
	}

	e, ok := fs.entries[canonical]
	if !ok {
		return nil, &vfs.Error{Code: vfs.ErrNotFound, Message: "directory not found", Path: path}
	}
	if e.kind != kindDirectory {
		return nil, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a directory", Path: path}
	}

	names := make([]string, 0, len(e.children))
	for name := range e.children {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]vfs.DirEntry, 0, len(names))
	for _, name := range names {
		childPath := fspath.Join(canonical, name)
		child, ok := fs.entries[childPath]
		if !ok {
			continue
		}
		entries = append(entries, &DirEntry{
			path: childPath,
			name: name,
			meta: child.snapshotLocked(),
		})
	}

	return entries, nil
}

// ReadLink always fails: the in-memory filesystem has no symbolic links.
func (fs *FS) ReadLink(path string) (string, error) {
	return "", &vfs.Error{
		Code:    vfs.ErrUnsupported,
		Message: "symbolic links are not supported by the in-memory filesystem",
		Path:    path,
	}
}

// SymlinkMetadata always fails: the in-memory filesystem has no symbolic
// links.
func (fs *FS) SymlinkMetadata(path string) (vfs.Metadata, error) {
	return nil, &vfs.Error{
		Code:    vfs.ErrUnsupported,
		Message: "symbolic links are not supported by the in-memory filesystem",
		Path:    path,
	}
}

// SetPermissions replaces the permissions of the entry at path and refreshes
// its modification time.
func (fs *FS) SetPermissions(path string, perm vfs.Permissions) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	canonical, err := fs.canonicalizeLocked(path, true)
	if err != nil {
		return err
	}

	e, ok := fs.entries[canonical]
	if !ok {
		return &vfs.Error{Code: vfs.ErrNotFound, Message: "path not found", Path: path}
	}

	e.readonly = perm.Readonly()
	e.modified = time.Now()
	return nil
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
