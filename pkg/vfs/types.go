package vfs

import "time"

// FileType describes what kind of entry a path names.
//
// Backends return their own concrete implementations; the overlay filesystem
// returns values tagged with the backend that produced them.
type FileType interface {
	IsDir() bool
	IsFile() bool
	IsSymlink() bool
}

// EntryType is the basic FileType implementation used by backends that model
// entries themselves (in-memory, badger).
type EntryType uint8

const (
	// EntryTypeFile is a regular file
	EntryTypeFile EntryType = iota

	// EntryTypeDirectory is a directory
	EntryTypeDirectory

	// EntryTypeSymlink is a symbolic link. Backends without native link
	// support surface hard-link alias entries with this type.
	EntryTypeSymlink
)

func (t EntryType) IsDir() bool     { return t == EntryTypeDirectory }
func (t EntryType) IsFile() bool    { return t == EntryTypeFile }
func (t EntryType) IsSymlink() bool { return t == EntryTypeSymlink }

// String returns the entry type name.
func (t EntryType) String() string {
	switch t {
	case EntryTypeFile:
		return "file"
	case EntryTypeDirectory:
		return "directory"
	case EntryTypeSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Permissions is the permission model of the contract: a single read-only
// bit. Backends with richer native permissions (e.g. the os-backed
// filesystem) project them onto this bit.
type Permissions interface {
	// Readonly reports whether the read-only bit is set
	Readonly() bool

	// SetReadonly sets the read-only bit on this permission value. The
	// change takes effect when the value is passed back through
	// FileSystem.SetPermissions or File.SetPermissions.
	SetReadonly(readonly bool)
}

// FilePermissions is the basic Permissions implementation.
type FilePermissions struct {
	readonly bool
}

// NewPermissions returns a permission value with the given read-only bit.
func NewPermissions(readonly bool) *FilePermissions {
	return &FilePermissions{readonly: readonly}
}

func (p *FilePermissions) Readonly() bool            { return p.readonly }
func (p *FilePermissions) SetReadonly(readonly bool) { p.readonly = readonly }

// Metadata describes an entry at a point in time. Values are snapshots:
// mutating the filesystem after the call does not change them.
type Metadata interface {
	// FileType returns the kind of entry
	FileType() FileType

	IsDir() bool
	IsFile() bool
	IsSymlink() bool

	// Len returns the file size in bytes (0 for directories)
	Len() uint64

	// Permissions returns a copy of the entry permissions
	Permissions() Permissions

	// Created returns the creation time
	Created() (time.Time, error)

	// Modified returns the last modification time. Entries that have never
	// been modified return a NotFound error.
	Modified() (time.Time, error)

	// Accessed returns the last access time. Entries that have never been
	// accessed return a NotFound error.
	Accessed() (time.Time, error)
}

// FileTimes carries the times applied by File.SetTimes. Unset fields leave
// the corresponding time unchanged.
type FileTimes interface {
	// Accessed returns the access time and whether it is set
	Accessed() (time.Time, bool)

	// Modified returns the modification time and whether it is set
	Modified() (time.Time, bool)

	// WithAccessed returns a copy with the access time set
	WithAccessed(t time.Time) FileTimes

	// WithModified returns a copy with the modification time set
	WithModified(t time.Time) FileTimes
}

// Times is the basic FileTimes implementation.
type Times struct {
	accessed    time.Time
	hasAccessed bool
	modified    time.Time
	hasModified bool
}

// NewTimes returns an empty set of file times.
func NewTimes() Times { return Times{} }

func (t Times) Accessed() (time.Time, bool) { return t.accessed, t.hasAccessed }
func (t Times) Modified() (time.Time, bool) { return t.modified, t.hasModified }

func (t Times) WithAccessed(at time.Time) FileTimes {
	t.accessed = at
	t.hasAccessed = true
	return t
}

func (t Times) WithModified(mt time.Time) FileTimes {
	t.modified = mt
	t.hasModified = true
	return t
}

// DirEntry is a single entry of a directory listing. Listings are
// materialized when ReadDir is called, so entries keep returning the state
// captured at listing time even if the directory changes afterwards.
type DirEntry interface {
	// Path returns the full path of the entry
	Path() string

	// FileName returns the entry name without its parent path
	FileName() string

	// FileType returns the kind of entry
	FileType() (FileType, error)

	// Metadata returns the entry metadata
	Metadata() (Metadata, error)
}
