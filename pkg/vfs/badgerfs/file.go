package badgerfs

import (
	"io"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/unifs/pkg/vfs"
)

// File is an open handle on a badger-backed file.
//
// The handle addresses the content blob directly by its content ID, so reads
// and writes keep working after the record is renamed. The cursor is shared
// between a handle and its clones; the write and append flags are
// per-handle. Every read and write is its own transaction.
type File struct {
	fs        *FS
	path      string
	contentID string
	write     bool
	append    bool
	inner     *fileState
}

// fileState is the handle state shared between clones.
type fileState struct {
	mu  sync.Mutex
	pos int
}

var _ vfs.File = (*File)(nil)

func (f *File) Read(p []byte) (int, error) {
	f.inner.mu.Lock()
	defer f.inner.mu.Unlock()

	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()

	if len(p) == 0 {
		return 0, nil
	}

	var n int
	var eof bool
	err := f.fs.view(func(txn *badger.Txn) error {
		data, err := getBlob(txn, f.contentID)
		if err != nil {
			return err
		}
		if f.inner.pos >= len(data) {
			eof = true
			return nil
		}
		n = copy(p, data[f.inner.pos:])
		f.inner.pos += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	if eof {
		return 0, io.EOF
	}
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

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	err := f.fs.update(func(txn *badger.Txn) error {
		data, err := getBlob(txn, f.contentID)
		if err != nil {
			return err
		}

		pos := f.inner.pos
		if f.append {
			pos = len(data)
		}

		// zero-extend when the cursor was seeked past the end
		if pos > len(data) {
			data = append(data, make([]byte, pos-len(data))...)
		}

		n := copy(data[pos:], p)
		if n < len(p) {
			data = append(data, p[n:]...)
		}

		if err := setBlob(txn, f.contentID, data); err != nil {
			return err
		}
		f.inner.pos = pos + len(p)
		return touchModifiedTxn(txn, f.path, time.Now())
	})
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// touchModifiedTxn refreshes the modification time of the record at
// canonical. A missing record is not an error: the handle may outlive a
// rename or removal, and blob writes still land.
func touchModifiedTxn(txn *badger.Txn, canonical string, t time.Time) error {
	rec, ok, err := getEntry(txn, canonical)
	if err != nil || !ok {
		return err
	}
	rec.Modified = &t
	return setEntry(txn, canonical, rec)
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
		f.fs.mu.RLock()
		err := f.fs.view(func(txn *badger.Txn) error {
			size, err := blobSize(txn, f.contentID)
			if err != nil {
				return err
			}
			base = int64(size)
			return nil
		})
		f.fs.mu.RUnlock()
		if err != nil {
			return 0, err
		}
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

// Metadata returns a fresh snapshot of the record backing this handle.
func (f *File) Metadata() (vfs.Metadata, error) {
	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()

	var meta *Metadata
	err := f.fs.view(func(txn *badger.Txn) error {
		rec, ok, err := getEntry(txn, f.path)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "file not found", Path: f.path}
		}
		meta, err = snapshotRecord(txn, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// SetLen truncates or zero-extends the content blob to size bytes.
func (f *File) SetLen(size uint64) error {
	f.inner.mu.Lock()
	defer f.inner.mu.Unlock()

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	return f.fs.update(func(txn *badger.Txn) error {
		data, err := getBlob(txn, f.contentID)
		if err != nil {
			return err
		}

		if size <= uint64(len(data)) {
			data = data[:size]
		} else {
			data = append(data, make([]byte, size-uint64(len(data)))...)
		}

		if err := setBlob(txn, f.contentID, data); err != nil {
			return err
		}
		return touchModifiedTxn(txn, f.path, time.Now())
	})
}

func (f *File) SetModified(t time.Time) error {
	return f.updateRecord(func(rec *entryRecord) {
		rec.Modified = &t
	})
}

func (f *File) SetPermissions(perm vfs.Permissions) error {
	readonly := perm.Readonly()
	return f.updateRecord(func(rec *entryRecord) {
		rec.Readonly = readonly
	})
}

func (f *File) SetTimes(times vfs.FileTimes) error {
	return f.updateRecord(func(rec *entryRecord) {
		if at, ok := times.Accessed(); ok {
			t := at
			rec.Accessed = &t
		}
		if mt, ok := times.Modified(); ok {
			t := mt
			rec.Modified = &t
		}
	})
}

func (f *File) updateRecord(apply func(rec *entryRecord)) error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	return f.fs.update(func(txn *badger.Txn) error {
		rec, ok, err := getEntry(txn, f.path)
		if err != nil {
			return err
		}
		if !ok {
			return &vfs.Error{Code: vfs.ErrNotFound, Message: "file not found", Path: f.path}
		}
		apply(rec)
		return setEntry(txn, f.path, rec)
	})
}

// SyncAll flushes pending database writes to disk.
func (f *File) SyncAll() error {
	if err := f.fs.db.Sync(); err != nil {
		return &vfs.Error{Code: vfs.ErrOther, Message: "failed to sync database: " + err.Error(), Path: f.path}
	}
	return nil
}

// SyncData flushes pending database writes to disk. Badger has no separate
// data-only sync.
func (f *File) SyncData() error {
	return f.SyncAll()
}

// TryClone returns a new handle sharing contents and cursor with this one.
func (f *File) TryClone() (vfs.File, error) {
	return &File{
		fs:        f.fs,
		path:      f.path,
		contentID: f.contentID,
		write:     f.write,
		append:    f.append,
		inner:     f.inner,
	}, nil
}
