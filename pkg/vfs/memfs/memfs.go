// Package memfs implements the in-memory filesystem engine.
//
// The whole filesystem is a single flat table mapping canonical absolute
// paths to entries. Directories keep a set of child names that mirrors the
// table keys below them; files own a shared, individually locked byte
// buffer; hard links are alias entries recording the canonical path of
// their target.
//
// Thread safety: a single RWMutex guards the table and entry metadata. File
// contents are guarded separately per buffer; handle reads stay off the
// table lock, while handle writes take it briefly to refresh timestamps.
package memfs

import (
	"sync"
	"time"

	"github.com/marmos91/unifs/pkg/vfs"
)

type entryKind uint8

const (
	kindFile entryKind = iota
	kindDirectory
	kindHardLink
)

// buffer is the shared contents of a file. Every open handle and the table
// entry point at the same buffer, so writes are visible everywhere at once.
type buffer struct {
	mu   sync.RWMutex
	data []byte
}

func (b *buffer) len() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint64(len(b.data))
}

// entry is a single row of the filesystem table. Exactly one of buf,
// children, or target is meaningful, selected by kind.
type entry struct {
	kind     entryKind
	buf      *buffer
	children map[string]struct{}
	target   string

	created  time.Time
	modified time.Time // zero when never modified
	accessed time.Time // zero when never accessed
	readonly bool
}

// FS is an in-memory filesystem. The zero value is not usable; create
// instances with New.
type FS struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

var _ vfs.FileSystem = (*FS)(nil)

// New creates an empty in-memory filesystem containing only the root
// directory.
func New() *FS {
	return &FS{
		entries: map[string]*entry{
			"/": {
				kind:     kindDirectory,
				children: make(map[string]struct{}),
				created:  time.Now(),
			},
		},
	}
}

// newDirEntry returns a fresh directory table entry.
func newDirEntry() *entry {
	return &entry{
		kind:     kindDirectory,
		children: make(map[string]struct{}),
		created:  time.Now(),
	}
}

// snapshotLocked captures entry metadata. Caller holds the table lock.
func (e *entry) snapshotLocked() *Metadata {
	meta := &Metadata{
		fileType: vfs.EntryTypeDirectory,
		readonly: e.readonly,
		created:  e.created,
		modified: e.modified,
		accessed: e.accessed,
	}

	switch e.kind {
	case kindFile:
		meta.fileType = vfs.EntryTypeFile
		meta.size = e.buf.len()
	case kindHardLink:
		// alias entries surface as symlinks
		meta.fileType = vfs.EntryTypeSymlink
	}

	return meta
}
