package stackedfs

import (
	"time"

	"github.com/marmos91/unifs/pkg/vfs"
)

// Origin identifies which backend of an overlay produced a value.
type Origin uint8

const (
	// OriginBase marks values produced by the base filesystem
	OriginBase Origin = iota

	// OriginOverlay marks values produced by the overlay filesystem
	OriginOverlay
)

// String returns the origin name.
func (o Origin) String() string {
	if o == OriginOverlay {
		return "overlay"
	}
	return "base"
}

// Metadata tags backend metadata with its origin.
type Metadata struct {
	origin Origin
	inner  vfs.Metadata
}

var _ vfs.Metadata = (*Metadata)(nil)

// Origin returns the backend that produced this metadata.
func (m *Metadata) Origin() Origin { return m.origin }

func (m *Metadata) FileType() vfs.FileType {
	return &FileType{origin: m.origin, inner: m.inner.FileType()}
}

func (m *Metadata) IsDir() bool     { return m.inner.IsDir() }
func (m *Metadata) IsFile() bool    { return m.inner.IsFile() }
func (m *Metadata) IsSymlink() bool { return m.inner.IsSymlink() }
func (m *Metadata) Len() uint64     { return m.inner.Len() }

func (m *Metadata) Permissions() vfs.Permissions {
	return &Permissions{origin: m.origin, inner: m.inner.Permissions()}
}

func (m *Metadata) Created() (time.Time, error)  { return m.inner.Created() }
func (m *Metadata) Modified() (time.Time, error) { return m.inner.Modified() }
func (m *Metadata) Accessed() (time.Time, error) { return m.inner.Accessed() }

// Permissions tags backend permissions with their origin. Tagged values must
// be handed back to entries of the same origin; SetPermissions and
// File.SetPermissions reject mismatches.
type Permissions struct {
	origin Origin
	inner  vfs.Permissions
}

var _ vfs.Permissions = (*Permissions)(nil)

// Origin returns the backend these permissions belong to.
func (p *Permissions) Origin() Origin { return p.origin }

func (p *Permissions) Readonly() bool            { return p.inner.Readonly() }
func (p *Permissions) SetReadonly(readonly bool) { p.inner.SetReadonly(readonly) }

// FileType tags a backend file type with its origin.
type FileType struct {
	origin Origin
	inner  vfs.FileType
}

var _ vfs.FileType = (*FileType)(nil)

// Origin returns the backend that produced this file type.
func (t *FileType) Origin() Origin { return t.origin }

func (t *FileType) IsDir() bool     { return t.inner.IsDir() }
func (t *FileType) IsFile() bool    { return t.inner.IsFile() }
func (t *FileType) IsSymlink() bool { return t.inner.IsSymlink() }

// FileTimes tags backend file times with their origin, for use with
// File.SetTimes on files of the same origin.
type FileTimes struct {
	origin Origin
	inner  vfs.FileTimes
}

var _ vfs.FileTimes = (*FileTimes)(nil)

// NewFileTimes returns an empty set of file times for entries of the given
// origin.
func NewFileTimes(origin Origin) *FileTimes {
	return &FileTimes{origin: origin, inner: vfs.NewTimes()}
}

// Origin returns the backend these times belong to.
func (t *FileTimes) Origin() Origin { return t.origin }

func (t *FileTimes) Accessed() (time.Time, bool) { return t.inner.Accessed() }
func (t *FileTimes) Modified() (time.Time, bool) { return t.inner.Modified() }

func (t *FileTimes) WithAccessed(at time.Time) vfs.FileTimes {
	return &FileTimes{origin: t.origin, inner: t.inner.WithAccessed(at)}
}

func (t *FileTimes) WithModified(mt time.Time) vfs.FileTimes {
	return &FileTimes{origin: t.origin, inner: t.inner.WithModified(mt)}
}

// DirEntry tags a backend directory entry with its origin. Overlay entry
// paths are reported with the mount point prefixed back on, so they remain
// valid paths on the overlay filesystem itself.
type DirEntry struct {
	origin     Origin
	mountPoint string
	inner      vfs.DirEntry
}

var _ vfs.DirEntry = (*DirEntry)(nil)

// Origin returns the backend that produced this entry.
func (d *DirEntry) Origin() Origin { return d.origin }

func (d *DirEntry) Path() string {
	if d.origin == OriginOverlay {
		return joinMount(d.mountPoint, d.inner.Path())
	}
	return d.inner.Path()
}

func (d *DirEntry) FileName() string { return d.inner.FileName() }

func (d *DirEntry) FileType() (vfs.FileType, error) {
	inner, err := d.inner.FileType()
	if err != nil {
		return nil, err
	}
	return &FileType{origin: d.origin, inner: inner}, nil
}

func (d *DirEntry) Metadata() (vfs.Metadata, error) {
	inner, err := d.inner.Metadata()
	if err != nil {
		return nil, err
	}
	return &Metadata{origin: d.origin, inner: inner}, nil
}
