// Package altrootfs rebases every path under a root directory of the
// wrapped filesystem, presenting that subtree as if it were the whole
// filesystem. Paths reported back (canonicalize results, directory entry
// paths) have the root prefix stripped again.
package altrootfs

import (
	"strings"

	"github.com/marmos91/unifs/pkg/vfs"
)

// FS presents a subtree of another filesystem as its root.
type FS struct {
	inner vfs.FileSystem
	root  string
}

var _ vfs.FileSystem = (*FS)(nil)

// New wraps inner rooted at root. The root must already exist and be a
// directory.
func New(inner vfs.FileSystem, root string) (*FS, error) {
	meta, err := inner.Metadata(root)
	if err != nil {
		return nil, err
	}
	if !meta.IsDir() {
		return nil, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "altroot is not a directory", Path: root}
	}

	return &FS{inner: inner, root: root}, nil
}

// NewOrCreate wraps inner rooted at root, creating the root directory (and
// missing ancestors) first.
func NewOrCreate(inner vfs.FileSystem, root string) (*FS, error) {
	if err := inner.CreateDirAll(root); err != nil && !vfs.IsAlreadyExists(err) {
		return nil, err
	}
	return New(inner, root)
}

// realPath joins path under the root. Dot components are left for the inner
// filesystem to resolve.
func (fs *FS) realPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return fs.root
	}
	return strings.TrimSuffix(fs.root, "/") + "/" + trimmed
}

// stripRoot converts an inner path back to the rebased view.
func (fs *FS) stripRoot(inner string, canonicalRoot string) (string, error) {
	if inner == canonicalRoot {
		return "/", nil
	}
	if !strings.HasPrefix(inner, strings.TrimSuffix(canonicalRoot, "/")+"/") {
		return "", &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path escapes the altroot", Path: inner}
	}
	return "/" + strings.TrimPrefix(inner[len(canonicalRoot):], "/"), nil
}

func (fs *FS) Canonicalize(path string) (string, error) {
	canonicalRoot, err := fs.inner.Canonicalize(fs.root)
	if err != nil {
		return "", err
	}

	canonical, err := fs.inner.Canonicalize(fs.realPath(path))
	if err != nil {
		return "", err
	}

	return fs.stripRoot(canonical, canonicalRoot)
}

func (fs *FS) Copy(from, to string) (uint64, error) {
	return fs.inner.Copy(fs.realPath(from), fs.realPath(to))
}

func (fs *FS) CreateDir(path string) error {
	return fs.inner.CreateDir(fs.realPath(path))
}

func (fs *FS) CreateDirAll(path string) error {
	return fs.inner.CreateDirAll(fs.realPath(path))
}

func (fs *FS) Exists(path string) (bool, error) {
	return fs.inner.Exists(fs.realPath(path))
}

func (fs *FS) HardLink(original, link string) error {
	return fs.inner.HardLink(fs.realPath(original), fs.realPath(link))
}

func (fs *FS) Metadata(path string) (vfs.Metadata, error) {
	return fs.inner.Metadata(fs.realPath(path))
}

func (fs *FS) Read(path string) ([]byte, error) {
	return fs.inner.Read(fs.realPath(path))
}

func (fs *FS) ReadDir(path string) ([]vfs.DirEntry, error) {
	inner, err := fs.inner.ReadDir(fs.realPath(path))
	if err != nil {
		return nil, err
	}

	entries := make([]vfs.DirEntry, 0, len(inner))
	for _, e := range inner {
		entries = append(entries, &DirEntry{inner: e, root: fs.root})
	}
	return entries, nil
}

func (fs *FS) ReadLink(path string) (string, error) {
	return fs.inner.ReadLink(fs.realPath(path))
}

func (fs *FS) ReadToString(path string) (string, error) {
	return fs.inner.ReadToString(fs.realPath(path))
}

func (fs *FS) RemoveDir(path string) error {
	return fs.inner.RemoveDir(fs.realPath(path))
}

func (fs *FS) RemoveDirAll(path string) error {
	return fs.inner.RemoveDirAll(fs.realPath(path))
}

func (fs *FS) RemoveFile(path string) error {
	return fs.inner.RemoveFile(fs.realPath(path))
}

func (fs *FS) Rename(from, to string) error {
	return fs.inner.Rename(fs.realPath(from), fs.realPath(to))
}

func (fs *FS) SetPermissions(path string, perm vfs.Permissions) error {
	return fs.inner.SetPermissions(fs.realPath(path), perm)
}

func (fs *FS) SymlinkMetadata(path string) (vfs.Metadata, error) {
	return fs.inner.SymlinkMetadata(fs.realPath(path))
}

func (fs *FS) Write(path string, data []byte) error {
	return fs.inner.Write(fs.realPath(path), data)
}

func (fs *FS) OpenFile(path string) (vfs.File, error) {
	return fs.inner.OpenFile(fs.realPath(path))
}

func (fs *FS) CreateFile(path string) (vfs.File, error) {
	return fs.inner.CreateFile(fs.realPath(path))
}

func (fs *FS) CreateNewFile(path string) (vfs.File, error) {
	return fs.inner.CreateNewFile(fs.realPath(path))
}

// DirEntry reports inner entries with the root prefix stripped from their
// paths.
type DirEntry struct {
	inner vfs.DirEntry
	root  string
}

var _ vfs.DirEntry = (*DirEntry)(nil)

func (d *DirEntry) Path() string {
	path := d.inner.Path()

	// entries come back with canonical absolute paths even when the root
	// was configured relative
	trimmed := strings.Trim(d.root, "/")
	if trimmed == "" {
		return path
	}
	root := "/" + trimmed
	if path == root {
		return "/"
	}
	if rest, ok := strings.CutPrefix(path, root+"/"); ok {
		return "/" + rest
	}
	return path
}

func (d *DirEntry) FileName() string { return d.inner.FileName() }

func (d *DirEntry) FileType() (vfs.FileType, error) { return d.inner.FileType() }

func (d *DirEntry) Metadata() (vfs.Metadata, error) { return d.inner.Metadata() }

// OpenOptions rebases the open path under the root.
type OpenOptions struct {
	fs    *FS
	inner vfs.OpenOptions
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
	return o
}

func (o *OpenOptions) Append(append bool) vfs.OpenOptions {
	o.inner = o.inner.Append(append)
	return o
}

func (o *OpenOptions) Truncate(truncate bool) vfs.OpenOptions {
	o.inner = o.inner.Truncate(truncate)
	return o
}

func (o *OpenOptions) Create(create bool) vfs.OpenOptions {
	o.inner = o.inner.Create(create)
	return o
}

func (o *OpenOptions) CreateNew(createNew bool) vfs.OpenOptions {
	o.inner = o.inner.CreateNew(createNew)
	return o
}

func (o *OpenOptions) Open(path string) (vfs.File, error) {
	return o.inner.Open(o.fs.realPath(path))
}

// DirBuilder rebases the create path under the root.
type DirBuilder struct {
	fs    *FS
	inner vfs.DirBuilder
}

var _ vfs.DirBuilder = (*DirBuilder)(nil)

func (fs *FS) NewDirBuilder() vfs.DirBuilder {
	return &DirBuilder{fs: fs, inner: fs.inner.NewDirBuilder()}
}

func (b *DirBuilder) Recursive(recursive bool) vfs.DirBuilder {
	b.inner = b.inner.Recursive(recursive)
	return b
}

func (b *DirBuilder) Create(path string) error {
	return b.inner.Create(b.fs.realPath(path))
}
