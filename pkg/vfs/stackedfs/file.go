package stackedfs

import (
	"time"

	"github.com/marmos91/unifs/pkg/vfs"
)

// File tags an open backend handle with its origin. I/O passes straight
// through; SetPermissions and SetTimes reject values tagged with the other
// origin.
type File struct {
	origin     Origin
	mountPoint string
	inner      vfs.File
}

var _ vfs.File = (*File)(nil)

// Origin returns the backend the file was opened on.
func (f *File) Origin() Origin { return f.origin }

func (f *File) Read(p []byte) (int, error)  { return f.inner.Read(p) }
func (f *File) Write(p []byte) (int, error) { return f.inner.Write(p) }

func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.inner.Seek(offset, whence)
}

func (f *File) Close() error { return f.inner.Close() }

func (f *File) Metadata() (vfs.Metadata, error) {
	meta, err := f.inner.Metadata()
	if err != nil {
		return nil, err
	}
	return &Metadata{origin: f.origin, inner: meta}, nil
}

func (f *File) SetLen(size uint64) error { return f.inner.SetLen(size) }

func (f *File) SetModified(t time.Time) error { return f.inner.SetModified(t) }

func (f *File) SetPermissions(perm vfs.Permissions) error {
	tagged, ok := perm.(*Permissions)
	if !ok || tagged.origin != f.origin {
		return &vfs.Error{
			Code:    vfs.ErrOther,
			Message: "permission type does not match filesystem type",
		}
	}
	return f.inner.SetPermissions(tagged.inner)
}

func (f *File) SetTimes(times vfs.FileTimes) error {
	tagged, ok := times.(*FileTimes)
	if !ok || tagged.origin != f.origin {
		return &vfs.Error{
			Code:    vfs.ErrOther,
			Message: "file times type does not match filesystem type",
		}
	}
	return f.inner.SetTimes(tagged.inner)
}

func (f *File) SyncAll() error  { return f.inner.SyncAll() }
func (f *File) SyncData() error { return f.inner.SyncData() }

func (f *File) TryClone() (vfs.File, error) {
	clone, err := f.inner.TryClone()
	if err != nil {
		return nil, err
	}
	return &File{origin: f.origin, mountPoint: f.mountPoint, inner: clone}, nil
}

// OpenOptions routes opens by domain: overlay-domain paths always open on
// the overlay (creations land there), base-domain paths on the base.
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

func (fs *FS) NewOpenOptions() vfs.OpenOptions { return &OpenOptions{fs: fs} }

func (o *OpenOptions) Read(read bool) vfs.OpenOptions           { o.read = read; return o }
func (o *OpenOptions) Write(write bool) vfs.OpenOptions         { o.write = write; return o }
func (o *OpenOptions) Append(append bool) vfs.OpenOptions       { o.append = append; return o }
func (o *OpenOptions) Truncate(truncate bool) vfs.OpenOptions   { o.truncate = truncate; return o }
func (o *OpenOptions) Create(create bool) vfs.OpenOptions       { o.create = create; return o }
func (o *OpenOptions) CreateNew(createNew bool) vfs.OpenOptions { o.createNew = createNew; return o }

func (o *OpenOptions) apply(inner vfs.OpenOptions) vfs.OpenOptions {
	return inner.
		Read(o.read).
		Write(o.write).
		Append(o.append).
		Truncate(o.truncate).
		Create(o.create).
		CreateNew(o.createNew)
}

func (o *OpenOptions) Open(path string) (vfs.File, error) {
	fs := o.fs

	if stripped, ok := fs.stripMount(path); ok {
		file, err := o.apply(fs.overlay.NewOpenOptions()).Open(stripped)
		if err != nil {
			return nil, err
		}
		return &File{origin: OriginOverlay, mountPoint: fs.mountPoint, inner: file}, nil
	}

	file, err := o.apply(fs.base.NewOpenOptions()).Open(path)
	if err != nil {
		return nil, err
	}
	return &File{origin: OriginBase, mountPoint: fs.mountPoint, inner: file}, nil
}

// DirBuilder routes directory creation by domain.
type DirBuilder struct {
	fs        *FS
	recursive bool
}

var _ vfs.DirBuilder = (*DirBuilder)(nil)

func (fs *FS) NewDirBuilder() vfs.DirBuilder { return &DirBuilder{fs: fs} }

func (b *DirBuilder) Recursive(recursive bool) vfs.DirBuilder {
	b.recursive = recursive
	return b
}

func (b *DirBuilder) Create(path string) error {
	fs := b.fs

	if stripped, ok := fs.stripMount(path); ok {
		return fs.overlay.NewDirBuilder().Recursive(b.recursive).Create(stripped)
	}
	return fs.base.NewDirBuilder().Recursive(b.recursive).Create(path)
}
