package memfs

import (
	"time"

	"github.com/marmos91/unifs/pkg/vfs"
)

// Metadata is a point-in-time snapshot of a table entry.
type Metadata struct {
	fileType vfs.EntryType
	size     uint64
	readonly bool
	created  time.Time
	modified time.Time
	accessed time.Time
}

var _ vfs.Metadata = (*Metadata)(nil)

func (m *Metadata) FileType() vfs.FileType { return m.fileType }
func (m *Metadata) IsDir() bool            { return m.fileType.IsDir() }
func (m *Metadata) IsFile() bool           { return m.fileType.IsFile() }
func (m *Metadata) IsSymlink() bool        { return m.fileType.IsSymlink() }
func (m *Metadata) Len() uint64            { return m.size }

func (m *Metadata) Permissions() vfs.Permissions {
	return vfs.NewPermissions(m.readonly)
}

// Created returns the creation time, which is always recorded.
func (m *Metadata) Created() (time.Time, error) {
	return m.created, nil
}

func (m *Metadata) Modified() (time.Time, error) {
	if m.modified.IsZero() {
		return time.Time{}, &vfs.Error{
			Code:    vfs.ErrNotFound,
			Message: "modified time not set",
		}
	}
	return m.modified, nil
}

func (m *Metadata) Accessed() (time.Time, error) {
	if m.accessed.IsZero() {
		return time.Time{}, &vfs.Error{
			Code:    vfs.ErrNotFound,
			Message: "accessed time not set",
		}
	}
	return m.accessed, nil
}

// DirEntry is a materialized directory listing entry. It keeps returning the
// state captured when the listing was taken.
type DirEntry struct {
	path string
	name string
	meta *Metadata
}

var _ vfs.DirEntry = (*DirEntry)(nil)

func (d *DirEntry) Path() string     { return d.path }
func (d *DirEntry) FileName() string { return d.name }

func (d *DirEntry) FileType() (vfs.FileType, error) {
	return d.meta.fileType, nil
}

func (d *DirEntry) Metadata() (vfs.Metadata, error) {
	return d.meta, nil
}
