package badgerfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// Record kinds stored in the Kind field.
const (
	recordFile      = "file"
	recordDirectory = "directory"
	recordHardLink  = "hardlink"
)

// entryRecord is the JSON value stored under an entry key. Exactly one of
// ContentID, Children, or Target is meaningful, selected by Kind. JSON keeps
// the database inspectable with standard tooling; records are small, so the
// encoding overhead does not matter.
type entryRecord struct {
	Kind      string     `json:"kind"`
	ContentID string     `json:"content_id,omitempty"`
	Children  []string   `json:"children,omitempty"`
	Target    string     `json:"target,omitempty"`
	Created   *time.Time `json:"created,omitempty"`
	Modified  *time.Time `json:"modified,omitempty"`
	Accessed  *time.Time `json:"accessed,omitempty"`
	Readonly  bool       `json:"readonly,omitempty"`
}

func (r *entryRecord) addChild(name string) {
	for _, c := range r.Children {
		if c == name {
			return
		}
	}
	r.Children = append(r.Children, name)
}

func (r *entryRecord) removeChild(name string) {
	for i, c := range r.Children {
		if c == name {
			r.Children = append(r.Children[:i], r.Children[i+1:]...)
			return
		}
	}
}

func getEntry(txn *badger.Txn, canonical string) (*entryRecord, bool, error) {
	item, err := txn.Get(entryKey(canonical))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rec entryRecord
	err = item.Value(func(val []byte) error {
		return decodeRecord(val, &rec)
	})
	if err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

func decodeRecord(val []byte, rec *entryRecord) error {
	if err := json.Unmarshal(val, rec); err != nil {
		return fmt.Errorf("failed to decode entry record: %w", err)
	}
	return nil
}

func setEntry(txn *badger.Txn, canonical string, rec *entryRecord) error {
	bytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode entry record: %w", err)
	}
	return txn.Set(entryKey(canonical), bytes)
}

func getBlob(txn *badger.Txn, id string) ([]byte, error) {
	if id == "" {
		return nil, nil
	}
	item, err := txn.Get(blobKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func setBlob(txn *badger.Txn, id string, data []byte) error {
	return txn.Set(blobKey(id), data)
}

func deleteBlob(txn *badger.Txn, id string) error {
	if id == "" {
		return nil
	}
	return txn.Delete(blobKey(id))
}

// blobSize returns the content length without copying the value out.
func blobSize(txn *badger.Txn, id string) (uint64, error) {
	if id == "" {
		return 0, nil
	}
	item, err := txn.Get(blobKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(item.ValueSize()), nil
}
