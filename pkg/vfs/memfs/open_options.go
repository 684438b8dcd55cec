package memfs

import (
	"time"

	"github.com/marmos91/unifs/internal/fspath"
	"github.com/marmos91/unifs/pkg/vfs"
)

// OpenOptions opens files on an in-memory filesystem. Append implies write
// and CreateNew implies create, matching the contract.
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

	canonical, err := fs.canonicalizeLocked(path, true)
	if err != nil {
		return nil, err
	}

	e, ok := fs.entries[canonical]

	if o.createNew && ok {
		return nil, &vfs.Error{Code: vfs.ErrAlreadyExists, Message: "path already exists", Path: path}
	}
	if !create && !ok {
		return nil, &vfs.Error{Code: vfs.ErrNotFound, Message: "file not found", Path: path}
	}

	if ok {
		switch e.kind {
		case kindDirectory:
			return nil, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot open a directory as a file", Path: path}
		case kindHardLink:
			// canonicalization resolves live links, so only a link whose
			// target chain dangles can still be here
			return nil, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot open a dangling link as a file", Path: path}
		}

		if o.truncate {
			e.buf.mu.Lock()
			e.buf.data = e.buf.data[:0]
			e.buf.mu.Unlock()
			e.modified = time.Now()
		}

		return &File{
			fs:     fs,
			path:   canonical,
			write:  write,
			append: o.append,
			inner:  &fileState{entry: e},
		}, nil
	}

	// Creating a new file.
	if !write {
		return nil, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "cannot create a file without write access", Path: path}
	}

	parent, okParent := fs.entries[fspath.Parent(canonical)]
	if !okParent || parent.kind != kindDirectory {
		return nil, &vfs.Error{Code: vfs.ErrNotFound, Message: "parent directory does not exist", Path: path}
	}

	newEntry := &entry{
		kind:    kindFile,
		buf:     &buffer{},
		created: time.Now(),
	}
	fs.entries[canonical] = newEntry
	parent.children[fspath.Base(canonical)] = struct{}{}

	return &File{
		fs:     fs,
		path:   canonical,
		write:  write,
		append: o.append,
		inner:  &fileState{entry: newEntry},
	}, nil
}
