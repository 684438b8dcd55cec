package osfs

import (
	"os"
	"time"

	"github.com/marmos91/unifs/pkg/vfs"
)

// File wraps an *os.File.
type File struct {
	file *os.File
}

var _ vfs.File = (*File)(nil)

func (f *File) Read(p []byte) (int, error)  { return f.file.Read(p) }
func (f *File) Write(p []byte) (int, error) { return f.file.Write(p) }

func (f *File) Seek(offset int64, whence int) (int64, error) {
	pos, err := f.file.Seek(offset, whence)
	if err != nil {
		return 0, wrapError(err, f.file.Name())
	}
	return pos, nil
}

func (f *File) Close() error {
	return wrapError(f.file.Close(), f.file.Name())
}

func (f *File) Metadata() (vfs.Metadata, error) {
	info, err := f.file.Stat()
	if err != nil {
		return nil, wrapError(err, f.file.Name())
	}
	return &Metadata{info: info}, nil
}

func (f *File) SetLen(size uint64) error {
	return wrapError(f.file.Truncate(int64(size)), f.file.Name())
}

func (f *File) SetModified(t time.Time) error {
	return wrapError(os.Chtimes(f.file.Name(), time.Time{}, t), f.file.Name())
}

func (f *File) SetPermissions(perm vfs.Permissions) error {
	info, err := f.file.Stat()
	if err != nil {
		return wrapError(err, f.file.Name())
	}

	mode := info.Mode().Perm()
	if perm.Readonly() {
		mode &^= 0o222
	} else {
		mode |= 0o200
	}

	return wrapError(f.file.Chmod(mode), f.file.Name())
}

func (f *File) SetTimes(times vfs.FileTimes) error {
	// zero values leave the corresponding time unchanged
	var accessed, modified time.Time
	if at, ok := times.Accessed(); ok {
		accessed = at
	}
	if mt, ok := times.Modified(); ok {
		modified = mt
	}
	return wrapError(os.Chtimes(f.file.Name(), accessed, modified), f.file.Name())
}

func (f *File) SyncAll() error  { return wrapError(f.file.Sync(), f.file.Name()) }
func (f *File) SyncData() error { return wrapError(f.file.Sync(), f.file.Name()) }

// TryClone is not supported: duplicating a descriptor with a shared cursor
// has no portable implementation in the standard library.
func (f *File) TryClone() (vfs.File, error) {
	return nil, &vfs.Error{
		Code:    vfs.ErrUnsupported,
		Message: "clone is not supported for os-backed files",
		Path:    f.file.Name(),
	}
}

// OpenOptions opens files on the host filesystem.
type OpenOptions struct {
	read      bool
	write     bool
	append    bool
	truncate  bool
	create    bool
	createNew bool
}

var _ vfs.OpenOptions = (*OpenOptions)(nil)

func (fs *FS) NewOpenOptions() vfs.OpenOptions { return &OpenOptions{} }

func (o *OpenOptions) Read(read bool) vfs.OpenOptions           { o.read = read; return o }
func (o *OpenOptions) Write(write bool) vfs.OpenOptions         { o.write = write; return o }
func (o *OpenOptions) Append(append bool) vfs.OpenOptions       { o.append = append; return o }
func (o *OpenOptions) Truncate(truncate bool) vfs.OpenOptions   { o.truncate = truncate; return o }
func (o *OpenOptions) Create(create bool) vfs.OpenOptions       { o.create = create; return o }
func (o *OpenOptions) CreateNew(createNew bool) vfs.OpenOptions { o.createNew = createNew; return o }

func (o *OpenOptions) Open(path string) (vfs.File, error) {
	write := o.write || o.append

	var flag int
	switch {
	case o.read && write:
		flag = os.O_RDWR
	case write:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}

	if o.append {
		flag |= os.O_APPEND
	}
	if o.truncate {
		flag |= os.O_TRUNC
	}
	if o.create || o.createNew {
		flag |= os.O_CREATE
	}
	if o.createNew {
		flag |= os.O_EXCL
	}

	file, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, wrapError(err, path)
	}

	return &File{file: file}, nil
}

// DirBuilder creates directories on the host filesystem.
type DirBuilder struct {
	recursive bool
}

var _ vfs.DirBuilder = (*DirBuilder)(nil)

func (fs *FS) NewDirBuilder() vfs.DirBuilder { return &DirBuilder{} }

func (b *DirBuilder) Recursive(recursive bool) vfs.DirBuilder {
	b.recursive = recursive
	return b
}

func (b *DirBuilder) Create(path string) error {
	if b.recursive {
		return wrapError(os.MkdirAll(path, 0o755), path)
	}
	return wrapError(os.Mkdir(path, 0o755), path)
}
