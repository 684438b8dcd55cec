package badgerfs

import (
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/marmos91/unifs/internal/fspath"
	"github.com/marmos91/unifs/pkg/vfs"
)

// OpenOptions opens files on a badger-backed filesystem. Append implies
// write and CreateNew implies create, matching the contract.
type OpenOptions struct {
	fs        *FS
	read      bool
	write     bool
	append    bool
	truncate  bool
	create    bool
	createNew bool
}

var _ vfs.OpenOptions = (*OpenOptions)(nil)

// NewOpenOptions returns an open-options builder for this filesystem.
func (fs *FS) NewOpenOptions() vfs.OpenOptions {
	return &OpenOptions{fs: fs}
}

func (o *OpenOptions) Read(read bool) vfs.OpenOptions           { o.read = read; return o }
func (o *OpenOptions) Write(write bool) vfs.OpenOptions         { o.write = write; return o }
func (o *OpenOptions) Append(append bool) vfs.OpenOptions       { o.append = append; return o }
func (o *OpenOptions) Truncate(truncate bool) vfs.OpenOptions   { o.truncate = truncate; return o }
func (o *OpenOptions) Create(create bool) vfs.OpenOptions       { o.create = create; return o }
func (o *OpenOptions) CreateNew(createNew bool) vfs.OpenOptions { o.createNew = createNew; return o }

// Open opens the file at path with the configured options.
func (o *OpenOptions) Open(path string) (vfs.File, error) {
	fs := o.fs
	write := o.write || o.append
	create := o.create || o.createNew

	fs.mu.Lock()
	defer fs.mu.Unlock()

	var file *File
	err := fs.update(func(txn *badger.Txn) error {
		canonical, err := canonicalizeTxn(txn, path, true)
		if err != nil {
			return err
		}

		rec, ok, err := getEntry(txn, canonical)
		if err != nil {
			return err
		}

		if o.createNew && ok {
			return &vfs.Error{Code: vfs.ErrAlreadyExists, Message: "path already exists", Path: path}
		}
		if !create && !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "file not found", Path: path}
		}

		if ok {
			switch rec.Kind {
			case recordDirectory:
				return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot open a directory as a file", Path: path}
			case recordHardLink:
				// canonicalization resolves live links, so only a link whose
				// target chain dangles can still be here
				return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot open a dangling link as a file", Path: path}
			}

			if o.truncate {
				if err := setBlob(txn, rec.ContentID, nil); err != nil {
					return err
				}
				now := time.Now()
				rec.Modified = &now
				if err := setEntry(txn, canonical, rec); err != nil {
					return err
				}
			}

			file = &File{
				fs:        fs,
				path:      canonical,
				contentID: rec.ContentID,
				write:     write,
				append:    o.append,
				inner:     &fileState{},
			}
			return nil
		}

		// Creating a new file.
		if !write {
			return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot create a file without write access", Path: path}
		}

		parentPath := fspath.Parent(canonical)
		parent, okParent, err := getEntry(txn, parentPath)
		if err != nil {
			return err
		}
		if !okParent || parent.Kind != recordDirectory {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "parent directory does not exist", Path: path}
		}

		id := uuid.NewString()
		if err := setBlob(txn, id, nil); err != nil {
			return err
		}

		now := time.Now()
		newRec := &entryRecord{Kind: recordFile, ContentID: id, Created: &now}
		if err := setEntry(txn, canonical, newRec); err != nil {
			return err
		}
		parent.addChild(fspath.Base(canonical))
		if err := setEntry(txn, parentPath, parent); err != nil {
			return err
		}

		file = &File{
			fs:        fs,
			path:      canonical,
			contentID: id,
			write:     write,
			append:    o.append,
			inner:     &fileState{},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}
