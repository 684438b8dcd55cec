// Package osfs implements the contract as a passthrough to the host
// filesystem via the os package. It exists so code written against the
// contract can run on real disks; composed with altrootfs it confines
// callers to a directory subtree.
package osfs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"syscall"
	"unicode/utf8"

	"github.com/marmos91/unifs/pkg/vfs"
)

// FS is the host filesystem.
type FS struct{}

var _ vfs.FileSystem = (*FS)(nil)

// New returns a host-backed filesystem.
func New() *FS { return &FS{} }

// wrapError maps os and syscall errors onto the contract error categories.
func wrapError(err error, path string) error {
	if err == nil {
		return nil
	}

	code := vfs.ErrOther
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		code = vfs.ErrNotFound
	case errors.Is(err, iofs.ErrExist):
		code = vfs.ErrAlreadyExists
	case errors.Is(err, iofs.ErrPermission):
		code = vfs.ErrPermissionDenied
	case errors.Is(err, syscall.ENOTEMPTY):
		code = vfs.ErrDirectoryNotEmpty
	case errors.Is(err, syscall.EROFS):
		code = vfs.ErrReadOnly
	case errors.Is(err, syscall.EINVAL),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.EISDIR):
		code = vfs.ErrInvalidInput
	}

	return &vfs.Error{Code: code, Message: err.Error(), Path: path}
}

// Canonicalize resolves path to an absolute path with symbolic links
// evaluated. The path must exist.
func (fs *FS) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", wrapError(err, path)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", wrapError(err, path)
	}

	return resolved, nil
}

// Copy copies file contents and permissions, like the platform copy.
func (fs *FS) Copy(from, to string) (uint64, error) {
	info, err := os.Stat(from)
	if err != nil {
		return 0, wrapError(err, from)
	}
	if info.IsDir() {
		return 0, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "source path is not a file", Path: from}
	}

	src, err := os.Open(from)
	if err != nil {
		return 0, wrapError(err, from)
	}
	defer src.Close()

	dst, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, wrapError(err, to)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return 0, wrapError(err, to)
	}

	if err := dst.Chmod(info.Mode().Perm()); err != nil {
		return 0, wrapError(err, to)
	}

	return uint64(written), nil
}

func (fs *FS) CreateDir(path string) error {
	return wrapError(os.Mkdir(path, 0o755), path)
}

func (fs *FS) CreateDirAll(path string) error {
	return wrapError(os.MkdirAll(path, 0o755), path)
}

func (fs *FS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, wrapError(err, path)
}

func (fs *FS) HardLink(original, link string) error {
	return wrapError(os.Link(original, link), link)
}

func (fs *FS) Metadata(path string) (vfs.Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, wrapError(err, path)
	}
	return &Metadata{info: info}, nil
}

func (fs *FS) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(err, path)
	}
	return data, nil
}

func (fs *FS) ReadDir(path string) ([]vfs.DirEntry, error) {
	osEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, wrapError(err, path)
	}

	entries := make([]vfs.DirEntry, 0, len(osEntries))
	for _, e := range osEntries {
		entries = append(entries, &DirEntry{
			path:  filepath.Join(path, e.Name()),
			entry: e,
		})
	}
	return entries, nil
}

func (fs *FS) ReadLink(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", wrapError(err, path)
	}
	return target, nil
}

func (fs *FS) ReadToString(path string) (string, error) {
	data, err := fs.Read(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &vfs.Error{Code: vfs.ErrOther, Message: "stream did not contain valid UTF-8", Path: path}
	}
	return string(data), nil
}

func (fs *FS) RemoveDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapError(err, path)
	}
	if !info.IsDir() {
		return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a directory", Path: path}
	}
	return wrapError(os.Remove(path), path)
}

func (fs *FS) RemoveDirAll(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapError(err, path)
	}
	if !info.IsDir() {
		return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a directory", Path: path}
	}
	return wrapError(os.RemoveAll(path), path)
}

func (fs *FS) RemoveFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapError(err, path)
	}
	if info.IsDir() {
		return &vfs.Error{Code: vfs.ErrInvalidInput, Message: "path is not a file", Path: path}
	}
	return wrapError(os.Remove(path), path)
}

func (fs *FS) Rename(from, to string) error {
	return wrapError(os.Rename(from, to), from)
}

// SetPermissions projects the read-only bit onto the owner write bit.
func (fs *FS) SetPermissions(path string, perm vfs.Permissions) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapError(err, path)
	}

	mode := info.Mode().Perm()
	if perm.Readonly() {
		mode &^= 0o222
	} else {
		mode |= 0o200
	}

	return wrapError(os.Chmod(path, mode), path)
}

func (fs *FS) SymlinkMetadata(path string) (vfs.Metadata, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, wrapError(err, path)
	}
	return &Metadata{info: info}, nil
}

func (fs *FS) Write(path string, data []byte) error {
	return wrapError(os.WriteFile(path, data, 0o644), path)
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
