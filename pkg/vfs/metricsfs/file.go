package metricsfs

import (
	"time"

	"github.com/marmos91/unifs/pkg/metrics"
	"github.com/marmos91/unifs/pkg/vfs"
)

// File instruments an open handle, tracking data volume and the open-handle
// gauge.
type File struct {
	inner  vfs.File
	m      metrics.FilesystemMetrics
	closed bool
}

var _ vfs.File = (*File)(nil)

func (f *File) Read(p []byte) (int, error) {
	n, err := f.inner.Read(p)
	if n > 0 {
		f.m.RecordRead(n)
	}
	return n, err
}

func (f *File) Write(p []byte) (int, error) {
	n, err := f.inner.Write(p)
	if n > 0 {
		f.m.RecordWrite(n)
	}
	return n, err
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.inner.Seek(offset, whence)
}

// Close closes the handle, decrementing the open-handle gauge exactly once.
func (f *File) Close() error {
	err := f.inner.Close()
	if !f.closed {
		f.closed = true
		f.m.FileClosed()
	}
	return err
}

func (f *File) Metadata() (vfs.Metadata, error) {
	return f.inner.Metadata()
}

func (f *File) SetLen(size uint64) error {
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

// TryClone clones the underlying handle; the clone counts as a newly opened
// file.
func (f *File) TryClone() (vfs.File, error) {
	clone, err := f.inner.TryClone()
	if err != nil {
		return nil, err
	}
	f.m.FileOpened()
	return &File{inner: clone, m: f.m}, nil
}
