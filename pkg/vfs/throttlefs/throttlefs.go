// Package throttlefs wraps another filesystem with token-bucket rate
// limiting.
//
// Every operation waits for a token before delegating, smoothing load on the
// wrapped backend instead of rejecting work. File handles consume tokens on
// reads and writes too, so data-plane traffic is throttled alongside the
// metadata operations. A rate of 0 disables limiting.
package throttlefs

import (
	"context"

	"github.com/marmos91/unifs/internal/ratelimiter"
	"github.com/marmos91/unifs/pkg/vfs"
)

// FS throttles another filesystem.
type FS struct {
	inner   vfs.FileSystem
	limiter *ratelimiter.RateLimiter
}

var _ vfs.FileSystem = (*FS)(nil)

// New wraps inner, allowing opsPerSecond sustained operations with the given
// burst capacity. opsPerSecond = 0 disables limiting.
func New(inner vfs.FileSystem, opsPerSecond, burst uint) *FS {
	return &FS{
		inner:   inner,
		limiter: ratelimiter.New(opsPerSecond, burst),
	}
}

// SetLimit adjusts the sustained rate at runtime.
func (fs *FS) SetLimit(opsPerSecond uint) {
	fs.limiter.SetLimit(opsPerSecond)
}

// wait blocks until the operation may proceed. The background context means
// a throttled operation cannot be abandoned; the contract has no way to hand
// a context through.
func (fs *FS) wait() {
	_ = fs.limiter.Wait(context.Background())
}

func (fs *FS) Canonicalize(path string) (string, error) {
	fs.wait()
	return fs.inner.Canonicalize(path)
}

func (fs *FS) Exists(path string) (bool, error) {
	fs.wait()
	return fs.inner.Exists(path)
}

func (fs *FS) Metadata(path string) (vfs.Metadata, error) {
	fs.wait()
	return fs.inner.Metadata(path)
}

func (fs *FS) SymlinkMetadata(path string) (vfs.Metadata, error) {
	fs.wait()
	return fs.inner.SymlinkMetadata(path)
}

func (fs *FS) CreateDir(path string) error {
	fs.wait()
	return fs.inner.CreateDir(path)
}

func (fs *FS) CreateDirAll(path string) error {
	fs.wait()
	return fs.inner.CreateDirAll(path)
}

func (fs *FS) Copy(from, to string) (uint64, error) {
	fs.wait()
	return fs.inner.Copy(from, to)
}

func (fs *FS) HardLink(original, link string) error {
	fs.wait()
	return fs.inner.HardLink(original, link)
}

func (fs *FS) Rename(from, to string) error {
	fs.wait()
	return fs.inner.Rename(from, to)
}

func (fs *FS) RemoveDir(path string) error {
	fs.wait()
	return fs.inner.RemoveDir(path)
}

func (fs *FS) RemoveDirAll(path string) error {
	fs.wait()
	return fs.inner.RemoveDirAll(path)
}

func (fs *FS) RemoveFile(path string) error {
	fs.wait()
	return fs.inner.RemoveFile(path)
}

func (fs *FS) ReadDir(path string) ([]vfs.DirEntry, error) {
	fs.wait()
	return fs.inner.ReadDir(path)
}

func (fs *FS) ReadLink(path string) (string, error) {
	fs.wait()
	return fs.inner.ReadLink(path)
}

func (fs *FS) SetPermissions(path string, perm vfs.Permissions) error {
	fs.wait()
	return fs.inner.SetPermissions(path, perm)
}

func (fs *FS) Read(path string) ([]byte, error) {
	fs.wait()
	return fs.inner.Read(path)
}

func (fs *FS) ReadToString(path string) (string, error) {
	fs.wait()
	return fs.inner.ReadToString(path)
}

func (fs *FS) Write(path string, data []byte) error {
	fs.wait()
	return fs.inner.Write(path, data)
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
// throttled.
func (fs *FS) NewOpenOptions() vfs.OpenOptions {
	return &OpenOptions{fs: fs, inner: fs.inner.NewOpenOptions()}
}

// NewDirBuilder returns a directory builder whose Create calls are
// throttled.
func (fs *FS) NewDirBuilder() vfs.DirBuilder {
	return &DirBuilder{fs: fs, inner: fs.inner.NewDirBuilder()}
}

// OpenOptions throttles the open path and wraps the resulting handle.
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
	o.fs.wait()
	f, err := o.inner.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{fs: o.fs, inner: f}, nil
}

// DirBuilder throttles directory creation.
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
	b.fs.wait()
	return b.inner.Create(path)
}
