package vfs

import (
	"io"
	"time"
)

// File is an open file handle.
//
// Handles carry their own cursor. Clones obtained through TryClone share the
// cursor and the underlying contents with the original handle; open flags
// are copied, not shared.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Metadata returns metadata for the open file. The size always
	// reflects the current contents.
	Metadata() (Metadata, error)

	// SetLen truncates or zero-extends the file to size bytes.
	SetLen(size uint64) error

	// SetModified sets the modification time of the open file.
	SetModified(t time.Time) error

	// SetPermissions replaces the permissions of the open file.
	SetPermissions(perm Permissions) error

	// SetTimes applies the set fields of times to the open file.
	SetTimes(times FileTimes) error

	// SyncAll flushes contents and metadata to the underlying storage.
	SyncAll() error

	// SyncData flushes contents (but not necessarily metadata) to the
	// underlying storage.
	SyncData() error

	// TryClone returns a new handle sharing state with this one.
	TryClone() (File, error)
}
