package throttlefs

import (
	"time"

	"github.com/marmos91/unifs/pkg/vfs"
)

// File throttles reads and writes through an open handle. Cursor movement
// and metadata accessors pass through unthrottled.
type File struct {
	fs    *FS
	inner vfs.File
}

var _ vfs.File = (*File)(nil)

func (f *File) Read(p []byte) (int, error) {
	f.fs.wait()
	return f.inner.Read(p)
}

func (f *File) Write(p []byte) (int, error) {
	f.fs.wait()
	return f.inner.Write(p)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.inner.Seek(offset, whence)
}

func (f *File) Close() error {
	return f.inner.Close()
}

func (f *File) Metadata() (vfs.Metadata, error) {
	return f.inner.Metadata()
}

func (f *File) SetLen(size uint64) error {
	f.fs.wait()
	return f.inner.SetLen(size)
}

func (f *File) SetModified(t time.Time) error {
	return f.inner.SetModified(t)
}

func (f *File) SetPermissions(perm vfs.Permissions) error {
	return f.inner.SetPermissions(perm)
}

func (f *File) SetTimes(times vfs.FileTimes) error {
	return f.inner.SetTimes(times)
}

func (f *File) SyncAll() error  { return f.inner.SyncAll() }
func (f *File) SyncData() error { return f.inner.SyncData() }

func (f *File) TryClone() (vfs.File, error) {
	clone, err := f.inner.TryClone()
	if err != nil {
		return nil, err
	}
	return &File{fs: f.fs, inner: clone}, nil
}
