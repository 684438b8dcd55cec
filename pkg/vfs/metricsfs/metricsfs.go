// Package metricsfs wraps another filesystem with Prometheus
// instrumentation.
//
// Every operation is recorded with its name, latency, and outcome; file
// handles additionally track open-handle count and data volume. When the
// global metrics registry is not initialized the wrapper degrades to
// pass-through calls with no-op recording, so it can always be applied.
package metricsfs

import (
	"time"

	"github.com/marmos91/unifs/pkg/metrics"
	"github.com/marmos91/unifs/pkg/vfs"
)

// FS instruments another filesystem.
type FS struct {
	inner vfs.FileSystem
	m     metrics.FilesystemMetrics
}

var _ vfs.FileSystem = (*FS)(nil)

// New wraps inner with instrumentation labeled by backend.
func New(inner vfs.FileSystem, backend string) *FS {
	return &FS{
		inner: inner,
		m:     metrics.NewFilesystemMetrics(backend),
	}
}

// record is a small helper: operations call it with the start time captured
// before delegating.
func (fs *FS) record(operation string, start time.Time, err error) {
	fs.m.RecordOperation(operation, time.Since(start), err)
}

func (fs *FS) Canonicalize(path string) (string, error) {
	start := time.Now()
	canonical, err := fs.inner.Canonicalize(path)
	fs.record("Canonicalize", start, err)
	return canonical, err
}

func (fs *FS) Exists(path string) (bool, error) {
	start := time.Now()
	exists, err := fs.inner.Exists(path)
	fs.record("Exists", start, err)
	return exists, err
}

func (fs *FS) Metadata(path string) (vfs.Metadata, error) {
	start := time.Now()
	meta, err := fs.inner.Metadata(path)
	fs.record("Metadata", start, err)
	return meta, err
}

func (fs *FS) SymlinkMetadata(path string) (vfs.Metadata, error) {
	start := time.Now()
	meta, err := fs.inner.SymlinkMetadata(path)
	fs.record("SymlinkMetadata", start, err)
	return meta, err
}

func (fs *FS) CreateDir(path string) error {
	start := time.Now()
	err := fs.inner.CreateDir(path)
	fs.record("CreateDir", start, err)
	return err
}

func (fs *FS) CreateDirAll(path string) error {
	start := time.Now()
	err := fs.inner.CreateDirAll(path)
	fs.record("CreateDirAll", start, err)
	return err
}

func (fs *FS) Copy(from, to string) (uint64, error) {
	start := time.Now()
	n, err := fs.inner.Copy(from, to)
	fs.record("Copy", start, err)
	return n, err
}

func (fs *FS) HardLink(original, link string) error {
	start := time.Now()
	err := fs.inner.HardLink(original, link)
	fs.record("HardLink", start, err)
	return err
}

func (fs *FS) Rename(from, to string) error {
	start := time.Now()
	err := fs.inner.Rename(from, to)
	fs.record("Rename", start, err)
	return err
}

func (fs *FS) RemoveDir(path string) error {
	start := time.Now()
	err := fs.inner.RemoveDir(path)
	fs.record("RemoveDir", start, err)
	return err
}

func (fs *FS) RemoveDirAll(path string) error {
	start := time.Now()
	err := fs.inner.RemoveDirAll(path)
	fs.record("RemoveDirAll", start, err)
	return err
}

func (fs *FS) RemoveFile(path string) error {
	start := time.Now()
	err := fs.inner.RemoveFile(path)
	fs.record("RemoveFile", start, err)
	return err
}

func (fs *FS) ReadDir(path string) ([]vfs.DirEntry, error) {
	start := time.Now()
	entries, err := fs.inner.ReadDir(path)
	fs.record("ReadDir", start, err)
	return entries, err
}

func (fs *FS) ReadLink(path string) (string, error) {
	start := time.Now()
	target, err := fs.inner.ReadLink(path)
	fs.record("ReadLink", start, err)
	return target, err
}

func (fs *FS) SetPermissions(path string, perm vfs.Permissions) error {
	start := time.Now()
	err := fs.inner.SetPermissions(path, perm)
	fs.record("SetPermissions", start, err)
	return err
}

func (fs *FS) Read(path string) ([]byte, error) {
	start := time.Now()
	data, err := fs.inner.Read(path)
	fs.record("Read", start, err)
	if err == nil {
		fs.m.RecordRead(len(data))
	}
	return data, err
}

func (fs *FS) ReadToString(path string) (string, error) {
	start := time.Now()
	s, err := fs.inner.ReadToString(path)
	fs.record("ReadToString", start, err)
	if err == nil {
		fs.m.RecordRead(len(s))
	}
	return s, err
}

func (fs *FS) Write(path string, data []byte) error {
	start := time.Now()
	err := fs.inner.Write(path, data)
	fs.record("Write", start, err)
	if err == nil {
		fs.m.RecordWrite(len(data))
	}
	return err
}

func (fs *FS) OpenFile(path string) (vfs.File, error) {
	return fs.NewOpenOptions().Read(true).Open(path)
}

func (fs *FS) CreateFile(path string) (vfs.File, error) {
	return fs.NewOpenOptions().Write(true).Create(true).Truncate(true).Open(path)
}

func (fs *FS) CreateNewFile(path string) (vfs.File, error) {
	return fs.NewOpenOptions().Read(true).Write(true).CreateNew(true).Open(path)
}

// NewOpenOptions returns an open-options builder whose handles are
// instrumented.
func (fs *FS) NewOpenOptions() vfs.OpenOptions {
	return &OpenOptions{fs: fs, inner: fs.inner.NewOpenOptions()}
}

// NewDirBuilder returns a directory builder whose Create calls are recorded.
func (fs *FS) NewDirBuilder() vfs.DirBuilder {
	return &DirBuilder{fs: fs, inner: fs.inner.NewDirBuilder()}
}

// OpenOptions instruments the open path and wraps the resulting handle.
type OpenOptions struct {
	fs    *FS
	inner vfs.OpenOptions
}

var _ vfs.OpenOptions = (*OpenOptions)(nil)

func (o *OpenOptions) Read(read bool) vfs.OpenOptions   { o.inner.Read(read); return o }
func (o *OpenOptions) Write(write bool) vfs.OpenOptions { o.inner.Write(write); return o }
func (o *OpenOptions) Append(append bool) vfs.OpenOptions {
	o.inner.Append(append)
	return o
}
func (o *OpenOptions) Truncate(truncate bool) vfs.OpenOptions {
	o.inner.Truncate(truncate)
	return o
}
func (o *OpenOptions) Create(create bool) vfs.OpenOptions {
	o.inner.Create(create)
	return o
}
func (o *OpenOptions) CreateNew(createNew bool) vfs.OpenOptions {
	o.inner.CreateNew(createNew)
	return o
}

func (o *OpenOptions) Open(path string) (vfs.File, error) {
	start := time.Now()
	f, err := o.inner.Open(path)
	o.fs.record("Open", start, err)
	if err != nil {
		return nil, err
	}
	o.fs.m.FileOpened()
	return &File{inner: f, m: o.fs.m}, nil
}

// DirBuilder instruments directory creation.
type DirBuilder struct {
	fs    *FS
	inner vfs.DirBuilder
}

var _ vfs.DirBuilder = (*DirBuilder)(nil)

func (b *DirBuilder) Recursive(recursive bool) vfs.DirBuilder {
	b.inner.Recursive(recursive)
	return b
}

func (b *DirBuilder) Create(path string) error {
	start := time.Now()
	err := b.inner.Create(path)
	b.fs.record("CreateDir", start, err)
	return err
}
