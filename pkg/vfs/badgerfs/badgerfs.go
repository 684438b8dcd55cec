// Package badgerfs implements a persistent filesystem engine on BadgerDB.
//
// The layout mirrors the in-memory engine: one record per canonical absolute
// path, stored as JSON under the "e:" namespace, with directory records
// carrying their child names. File contents live in separate blobs under the
// "b:" namespace, addressed by random content IDs, so moving a subtree
// rewrites records but never data.
//
// Thread safety: a single RWMutex serializes mutations on top of BadgerDB's
// transactions, keeping the parent/child bookkeeping consistent without
// retry loops on transaction conflicts.
package badgerfs

import (
	"errors"
	"strings"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/marmos91/unifs/internal/logger"
	"github.com/marmos91/unifs/pkg/vfs"
)

// FS is a filesystem persisted in a BadgerDB database.
type FS struct {
	mu sync.RWMutex
	db *badger.DB
}

var _ vfs.FileSystem = (*FS)(nil)

// Open opens the filesystem stored under dir, creating the database and the
// root directory on first use.
func Open(dir string) (*FS, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(dbLogger{}).
		WithCompression(options.None)
	return open(opts)
}

// OpenInMemory creates a filesystem backed by an in-memory Badger instance.
// Contents are lost on Close; mainly useful for tests.
func OpenInMemory() (*FS, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(dbLogger{})
	return open(opts)
}

func open(opts badger.Options) (*FS, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, &vfs.Error{Code: vfs.ErrOther, Message: "failed to open badger database: " + err.Error()}
	}

	fs := &FS{db: db}
	if err := fs.ensureRoot(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return fs, nil
}

// Close flushes and closes the underlying database. The filesystem must not
// be used afterwards.
func (fs *FS) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.db.Close(); err != nil {
		return &vfs.Error{Code: vfs.ErrOther, Message: "failed to close badger database: " + err.Error()}
	}
	return nil
}

func (fs *FS) ensureRoot() error {
	return fs.update(func(txn *badger.Txn) error {
		_, ok, err := getEntry(txn, "/")
		if err != nil || ok {
			return err
		}
		now := time.Now()
		return setEntry(txn, "/", &entryRecord{Kind: recordDirectory, Created: &now})
	})
}

// view and update wrap Badger transactions, converting storage failures into
// the common error type while passing typed filesystem errors through.
func (fs *FS) view(fn func(txn *badger.Txn) error) error {
	return wrapDBErr(fs.db.View(fn))
}

func (fs *FS) update(fn func(txn *badger.Txn) error) error {
	return wrapDBErr(fs.db.Update(fn))
}

func wrapDBErr(err error) error {
	if err == nil {
		return nil
	}
	var verr *vfs.Error
	if errors.As(err, &verr) {
		return verr
	}
	return &vfs.Error{Code: vfs.ErrOther, Message: "storage failure: " + err.Error()}
}

// dbLogger forwards Badger's internal logging to the project logger. Badger
// is chatty at info level, so its info output is demoted to debug.
type dbLogger struct{}

func (dbLogger) Errorf(format string, v ...any) {
	logger.Error("badger: "+strings.TrimSpace(format), v...)
}

func (dbLogger) Warningf(format string, v ...any) {
	logger.Warn("badger: "+strings.TrimSpace(format), v...)
}

func (dbLogger) Infof(format string, v ...any) {
	logger.Debug("badger: "+strings.TrimSpace(format), v...)
}

func (dbLogger) Debugf(format string, v ...any) {
	logger.Debug("badger: "+strings.TrimSpace(format), v...)
}
