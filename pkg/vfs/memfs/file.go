package memfs

import (
	"io"
	"sync"
	"time"

	"github.com/marmos91/unifs/pkg/vfs"
)

// File is an open handle on an in-memory file.
//
// The handle shares the table entry, so writes through one handle are
// immediately visible through every other handle and through filesystem
// reads, timestamps included. The cursor is shared between a handle and its
// clones; the write and append flags are per-handle.
//
// A handle stays valid when its entry is renamed or removed: it keeps
// operating on the same buffer, which is then simply no longer reachable by
// path.
type File struct {
	fs     *FS
	path   string
	write  bool
	append bool
	inner  *fileState
}

// fileState is the handle state shared between clones.
type fileState struct {
	mu    sync.Mutex
	entry *entry
	pos   int
}

var _ vfs.File = (*File)(nil)

func (f *File) Read(p []byte) (int, error) {
	f.inner.mu.Lock()
	defer f.inner.mu.Unlock()

	buf := f.inner.entry.buf
	buf.mu.RLock()
	defer buf.mu.RUnlock()

	if len(p) == 0 {
		return 0, nil
	}
	if f.inner.pos >= len(buf.data) {
		return 0, io.EOF
	}

	n := copy(p, buf.data[f.inner.pos:])
	f.inner.pos += n
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	if !f.write {
		return 0, &vfs.Error{
			Code:    vfs.ErrPermissionDenied,
			Message: "file not opened for writing",
			Path:    f.path,
		}
	}

	f.inner.mu.Lock()
	defer f.inner.mu.Unlock()

	// table lock covers the timestamp refresh; lock order is handle,
	// table, buffer everywhere
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	e := f.inner.entry
	e.buf.mu.Lock()
	defer e.buf.mu.Unlock()

	data := e.buf.data
	if f.append {
		f.inner.pos = len(data)
	}

	// zero-extend when the cursor was seeked past the end
	if f.inner.pos > len(data) {
		data = append(data, make([]byte, f.inner.pos-len(data))...)
	}

	n := copy(data[f.inner.pos:], p)
	if n < len(p) {
		data = append(data, p[n:]...)
	}

	e.buf.data = data
	f.inner.pos += len(p)
	e.modified = time.Now()
	return len(p), nil
}

// Seek moves the cursor. Any explicit seek disables append mode on this
// handle, even one that fails; a combination producing a negative position
// fails with InvalidInput and leaves the cursor alone. Positions past the
// end are allowed and zero-extend on the next write.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.inner.mu.Lock()
	defer f.inner.mu.Unlock()

	f.append = false

	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(f.inner.pos)
	case io.SeekEnd:
		base = int64(f.inner.entry.buf.len())
	default:
		return 0, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "invalid seek whence", Path: f.path}
	}

	pos := base + offset
	if pos < 0 {
		return 0, &vfs.Error{Code: vfs.ErrInvalidInput, Message: "seek position out of bounds", Path: f.path}
	}

	f.inner.pos = int(pos)
	return pos, nil
}

func (f *File) Close() error { return nil }

// Metadata returns a fresh snapshot of the entry backing this handle.
func (f *File) Metadata() (vfs.Metadata, error) {
	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()

	return f.inner.entry.snapshotLocked(), nil
}

// SetLen truncates or zero-extends the shared contents to size bytes.
func (f *File) SetLen(size uint64) error {
	f.inner.mu.Lock()
	defer f.inner.mu.Unlock()

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	e := f.inner.entry
	e.buf.mu.Lock()
	defer e.buf.mu.Unlock()

	data := e.buf.data
	if size <= uint64(len(data)) {
		e.buf.data = data[:size]
	} else {
		e.buf.data = append(data, make([]byte, size-uint64(len(data)))...)
	}

	e.modified = time.Now()
	return nil
}

func (f *File) SetModified(t time.Time) error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	f.inner.entry.modified = t
	return nil
}

func (f *File) SetPermissions(perm vfs.Permissions) error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	f.inner.entry.readonly = perm.Readonly()
	return nil
}

func (f *File) SetTimes(times vfs.FileTimes) error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	e := f.inner.entry
	if at, ok := times.Accessed(); ok {
		e.accessed = at
	}
	if mt, ok := times.Modified(); ok {
		e.modified = mt
	}
	return nil
}

// SyncAll is a no-op: memory is the backing store.
func (f *File) SyncAll() error { return nil }

// SyncData is a no-op: memory is the backing store.
func (f *File) SyncData() error { return nil }

// TryClone returns a new handle sharing contents and cursor with this one.
func (f *File) TryClone() (vfs.File, error) {
	return &File{
		fs:     f.fs,
		path:   f.path,
		write:  f.write,
		append: f.append,
		inner:  f.inner,
	}, nil
}
