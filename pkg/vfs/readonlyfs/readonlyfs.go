// Package readonlyfs provides a read-only view over any filesystem: reads
// delegate to the wrapped backend, every mutation fails with ReadOnly.
package readonlyfs

import "github.com/marmos91/unifs/pkg/vfs"

// FS is a read-only view of another filesystem.
type FS struct {
	inner vfs.FileSystem
}

var _ vfs.FileSystem = (*FS)(nil)

// New wraps inner in a read-only view.
func New(inner vfs.FileSystem) *FS {
	return &FS{inner: inner}
}

func readOnlyError(message, path string) error {
	return &vfs.Error{Code: vfs.ErrReadOnly, Message: message, Path: path}
}

func (fs *FS) Canonicalize(path string) (string, error) {
	return fs.inner.Canonicalize(path)
}

func (fs *FS) Copy(from, to string) (uint64, error) {
	return 0, readOnlyError("cannot copy files on a read-only filesystem", to)
}

func (fs *FS) CreateDir(path string) error {
	return readOnlyError("cannot create directories on a read-only filesystem", path)
}

func (fs *FS) CreateDirAll(path string) error {
	return readOnlyError("cannot create directories on a read-only filesystem", path)
}

func (fs *FS) Exists(path string) (bool, error) {
	return fs.inner.Exists(path)
}

func (fs *FS) HardLink(original, link string) error {
	return readOnlyError("cannot create hard links on a read-only filesystem", link)
}

func (fs *FS) Metadata(path string) (vfs.Metadata, error) {
	return fs.inner.Metadata(path)
}

func (fs *FS) Read(path string) ([]byte, error) {
	return fs.inner.Read(path)
}

func (fs *FS) ReadDir(path string) ([]vfs.DirEntry, error) {
	return fs.inner.ReadDir(path)
}

func (fs *FS) ReadLink(path string) (string, error) {
	return fs.inner.ReadLink(path)
}

func (fs *FS) ReadToString(path string) (string, error) {
	return fs.inner.ReadToString(path)
}

func (fs *FS) RemoveDir(path string) error {
	return readOnlyError("cannot remove directories on a read-only filesystem", path)
}

func (fs *FS) RemoveDirAll(path string) error {
	return readOnlyError("cannot remove directories on a read-only filesystem", path)
}

func (fs *FS) RemoveFile(path string) error {
	return readOnlyError("cannot remove files on a read-only filesystem", path)
}

func (fs *FS) Rename(from, to string) error {
	return readOnlyError("cannot rename entries on a read-only filesystem", from)
}

func (fs *FS) SetPermissions(path string, perm vfs.Permissions) error {
	return readOnlyError("cannot change permissions on a read-only filesystem", path)
}

func (fs *FS) SymlinkMetadata(path string) (vfs.Metadata, error) {
	return fs.inner.SymlinkMetadata(path)
}

func (fs *FS) Write(path string, data []byte) error {
	return readOnlyError("cannot write files on a read-only filesystem", path)
}

func (fs *FS) OpenFile(path string) (vfs.File, error) {
	return fs.NewOpenOptions().Read(true).Open(path)
}

func (fs *FS) CreateFile(path string) (vfs.File, error) {
	return nil, readOnlyError("cannot create files on a read-only filesystem", path)
}

func (fs *FS) CreateNewFile(path string) (vfs.File, error) {
	return nil, readOnlyError("cannot create files on a read-only filesystem", path)
}

// OpenOptions rejects any combination of flags that could mutate the
// filesystem and delegates pure reads.
type OpenOptions struct {
	fs      *FS
	inner   vfs.OpenOptions
	mutates bool
}

var _ vfs.OpenOptions = (*OpenOptions)(nil)

func (fs *FS) NewOpenOptions() vfs.OpenOptions {
	return &OpenOptions{fs: fs, inner: fs.inner.NewOpenOptions()}
}

func (o *OpenOptions) Read(read bool) vfs.OpenOptions {
	o.inner = o.inner.Read(read)
	return o
}

func (o *OpenOptions) Write(write bool) vfs.OpenOptions {
	o.inner = o.inner.Write(write)
	o.mutates = o.mutates || write
	return o
}

func (o *OpenOptions) Append(append bool) vfs.OpenOptions {
	o.inner = o.inner.Append(append)
	o.mutates = o.mutates || append
	return o
}

func (o *OpenOptions) Truncate(truncate bool) vfs.OpenOptions {
	o.inner = o.inner.Truncate(truncate)
	o.mutates = o.mutates || truncate
	return o
}

func (o *OpenOptions) Create(create bool) vfs.OpenOptions {
	o.inner = o.inner.Create(create)
	o.mutates = o.mutates || create
	return o
}

func (o *OpenOptions) CreateNew(createNew bool) vfs.OpenOptions {
	o.inner = o.inner.CreateNew(createNew)
	o.mutates = o.mutates || createNew
	return o
}

func (o *OpenOptions) Open(path string) (vfs.File, error) {
	if o.mutates {
		return nil, readOnlyError("cannot open files for writing on a read-only filesystem", path)
	}
	return o.inner.Open(path)
}

// DirBuilder always fails: directory creation is a mutation.
type DirBuilder struct{}

var _ vfs.DirBuilder = (*DirBuilder)(nil)

func (fs *FS) NewDirBuilder() vfs.DirBuilder { return &DirBuilder{} }

func (b *DirBuilder) Recursive(recursive bool) vfs.DirBuilder { return b }

func (b *DirBuilder) Create(path string) error {
	return readOnlyError("cannot create directories on a read-only filesystem", path)
}
