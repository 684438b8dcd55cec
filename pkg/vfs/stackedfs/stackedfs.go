// Package stackedfs composes two filesystems: a base serving everything and
// an overlay mounted under a mount point. Paths under the mount point are
// classified as overlay-domain; queries and removals on them consult the
// overlay first and fall through to the base (with the original, unstripped
// path) when the overlay does not have the entry, while creations always
// target the overlay. An overlay entry fully shadows a base entry of the
// same path; contents are never merged.
//
// Values returned by the overlay filesystem (metadata, permissions, file
// types, directory entries, file handles, file times) are tagged with the
// backend that produced them. Tagged permissions and file times must be
// handed back to entries of the same origin.
//
// Cross-domain copy and rename are stream copies through open handles: they
// are not atomic, and a rename that fails between the copy and the source
// removal leaves both files behind.
package stackedfs

import (
	"io"
	"strings"

	"github.com/marmos91/unifs/pkg/vfs"
)

// FS is an overlay filesystem.
type FS struct {
	base       vfs.FileSystem
	overlay    vfs.FileSystem
	mountPoint string
}

var _ vfs.FileSystem = (*FS)(nil)

// New composes base and overlay, mounting the overlay root at mountPoint.
// The mount point is normalized to an absolute path without a trailing
// slash.
func New(base, overlay vfs.FileSystem, mountPoint string) *FS {
	mp := "/" + strings.Trim(mountPoint, "/")

	return &FS{
		base:       base,
		overlay:    overlay,
		mountPoint: mp,
	}
}

// MountPoint returns the normalized mount point of the overlay.
func (fs *FS) MountPoint() string { return fs.mountPoint }

// stripMount classifies a path. It returns the overlay-side path and true
// for overlay-domain paths, or false for base-domain paths. Classification
// is purely lexical: relative paths never match the mount point.
func (fs *FS) stripMount(path string) (string, bool) {
	if fs.mountPoint == "/" {
		if strings.HasPrefix(path, "/") {
			return path, true
		}
		return "", false
	}

	if path == fs.mountPoint {
		return "/", true
	}
	if rest, ok := strings.CutPrefix(path, fs.mountPoint+"/"); ok {
		return "/" + rest, true
	}
	return "", false
}

// joinMount prefixes the mount point back onto an overlay-side path.
func joinMount(mountPoint, overlayPath string) string {
	if mountPoint == "/" {
		return overlayPath
	}
	if overlayPath == "/" || overlayPath == "" {
		return mountPoint
	}
	return mountPoint + "/" + strings.TrimPrefix(overlayPath, "/")
}

// Canonicalize canonicalizes overlay-domain paths on the overlay and joins
// the mount point back on; base-domain paths go to the base untouched.
func (fs *FS) Canonicalize(path string) (string, error) {
	if stripped, ok := fs.stripMount(path); ok {
		canonical, err := fs.overlay.Canonicalize(stripped)
		if err != nil {
			return "", err
		}
		return joinMount(fs.mountPoint, canonical), nil
	}
	return fs.base.Canonicalize(path)
}

func (fs *FS) Exists(path string) (bool, error) {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return fs.base.Exists(path)
}

func (fs *FS) Metadata(path string) (vfs.Metadata, error) {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return nil, err
		}
		if exists {
			meta, err := fs.overlay.Metadata(stripped)
			if err != nil {
				return nil, err
			}
			return &Metadata{origin: OriginOverlay, inner: meta}, nil
		}
	}

	meta, err := fs.base.Metadata(path)
	if err != nil {
		return nil, err
	}
	return &Metadata{origin: OriginBase, inner: meta}, nil
}

func (fs *FS) SymlinkMetadata(path string) (vfs.Metadata, error) {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return nil, err
		}
		if exists {
			meta, err := fs.overlay.SymlinkMetadata(stripped)
			if err != nil {
				return nil, err
			}
			return &Metadata{origin: OriginOverlay, inner: meta}, nil
		}
	}

	meta, err := fs.base.SymlinkMetadata(path)
	if err != nil {
		return nil, err
	}
	return &Metadata{origin: OriginBase, inner: meta}, nil
}

func (fs *FS) Read(path string) ([]byte, error) {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return nil, err
		}
		if exists {
			return fs.overlay.Read(stripped)
		}
	}
	return fs.base.Read(path)
}

func (fs *FS) ReadToString(path string) (string, error) {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return "", err
		}
		if exists {
			return fs.overlay.ReadToString(stripped)
		}
	}
	return fs.base.ReadToString(path)
}

func (fs *FS) ReadLink(path string) (string, error) {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return "", err
		}
		if exists {
			return fs.overlay.ReadLink(stripped)
		}
	}
	return fs.base.ReadLink(path)
}

func (fs *FS) ReadDir(path string) ([]vfs.DirEntry, error) {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return nil, err
		}
		if exists {
			entries, err := fs.overlay.ReadDir(stripped)
			if err != nil {
				return nil, err
			}
			return fs.wrapEntries(entries, OriginOverlay), nil
		}
	}

	entries, err := fs.base.ReadDir(path)
	if err != nil {
		return nil, err
	}
	return fs.wrapEntries(entries, OriginBase), nil
}

func (fs *FS) wrapEntries(entries []vfs.DirEntry, origin Origin) []vfs.DirEntry {
	wrapped := make([]vfs.DirEntry, 0, len(entries))
	for _, e := range entries {
		wrapped = append(wrapped, &DirEntry{
			origin:     origin,
			mountPoint: fs.mountPoint,
			inner:      e,
		})
	}
	return wrapped
}

func (fs *FS) CreateDir(path string) error {
	if stripped, ok := fs.stripMount(path); ok {
		return fs.overlay.CreateDir(stripped)
	}
	return fs.base.CreateDir(path)
}

func (fs *FS) CreateDirAll(path string) error {
	if stripped, ok := fs.stripMount(path); ok {
		return fs.overlay.CreateDirAll(stripped)
	}
	return fs.base.CreateDirAll(path)
}

func (fs *FS) Write(path string, data []byte) error {
	if stripped, ok := fs.stripMount(path); ok {
		return fs.overlay.Write(stripped, data)
	}
	return fs.base.Write(path, data)
}

// Removals act on whichever backend holds the entry: an overlay-domain path
// missing from the overlay falls through to the base, so base entries visible
// under the mount point can be removed.

func (fs *FS) RemoveDir(path string) error {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return err
		}
		if exists {
			return fs.overlay.RemoveDir(stripped)
		}
	}
	return fs.base.RemoveDir(path)
}

func (fs *FS) RemoveDirAll(path string) error {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return err
		}
		if exists {
			return fs.overlay.RemoveDirAll(stripped)
		}
	}
	return fs.base.RemoveDirAll(path)
}

func (fs *FS) RemoveFile(path string) error {
	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return err
		}
		if exists {
			return fs.overlay.RemoveFile(stripped)
		}
	}
	return fs.base.RemoveFile(path)
}

// HardLink creates a link when both paths live in the same domain; links
// across the two backends are impossible.
func (fs *FS) HardLink(original, link string) error {
	originalStripped, originalOverlay := fs.stripMount(original)
	linkStripped, linkOverlay := fs.stripMount(link)

	switch {
	case originalOverlay && linkOverlay:
		return fs.overlay.HardLink(originalStripped, linkStripped)
	case !originalOverlay && !linkOverlay:
		return fs.base.HardLink(original, link)
	default:
		return &vfs.Error{
			Code:    vfs.ErrOther,
			Message: "cannot create hard link across filesystems",
			Path:    link,
		}
	}
}

// Copy delegates same-domain copies to the owning backend and falls back to
// a stream copy for cross-domain ones.
func (fs *FS) Copy(from, to string) (uint64, error) {
	fromStripped, fromOverlay := fs.stripMount(from)
	toStripped, toOverlay := fs.stripMount(to)

	switch {
	case fromOverlay && toOverlay:
		return fs.overlay.Copy(fromStripped, toStripped)
	case !fromOverlay && !toOverlay:
		return fs.base.Copy(from, to)
	default:
		return fs.streamCopy(from, to)
	}
}

// Rename delegates same-domain renames and emulates cross-domain ones as
// copy-then-remove. The emulation is not atomic.
func (fs *FS) Rename(from, to string) error {
	fromStripped, fromOverlay := fs.stripMount(from)
	toStripped, toOverlay := fs.stripMount(to)

	switch {
	case fromOverlay && toOverlay:
		return fs.overlay.Rename(fromStripped, toStripped)
	case !fromOverlay && !toOverlay:
		return fs.base.Rename(from, to)
	default:
		if _, err := fs.streamCopy(from, to); err != nil {
			return err
		}
		return fs.RemoveFile(from)
	}
}

func (fs *FS) streamCopy(from, to string) (uint64, error) {
	src, err := fs.NewOpenOptions().Read(true).Open(from)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := fs.NewOpenOptions().Write(true).Create(true).Truncate(true).Open(to)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return 0, err
	}
	return uint64(written), nil
}

// SetPermissions requires a permission value tagged with the origin that
// will receive it.
func (fs *FS) SetPermissions(path string, perm vfs.Permissions) error {
	tagged, ok := perm.(*Permissions)
	if !ok {
		return &vfs.Error{
			Code:    vfs.ErrOther,
			Message: "permission type does not match filesystem type",
			Path:    path,
		}
	}

	if stripped, ok := fs.stripMount(path); ok {
		exists, err := fs.overlay.Exists(stripped)
		if err != nil {
			return err
		}
		if exists {
			if tagged.origin != OriginOverlay {
				return &vfs.Error{
					Code:    vfs.ErrOther,
					Message: "permission type does not match filesystem type",
					Path:    path,
				}
			}
			return fs.overlay.SetPermissions(stripped, tagged.inner)
		}
	}

	if tagged.origin != OriginBase {
		return &vfs.Error{
			Code:    vfs.ErrOther,
			Message: "permission type does not match filesystem type",
			Path:    path,
		}
	}
	return fs.base.SetPermissions(path, tagged.inner)
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
