package badgerfs

import (
	badger "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/unifs/internal/fspath"
)

// canonicalizeTxn normalizes path and, when resolveLinks is set, follows
// hard-link alias records.
//
// Resolution only happens when the normalized path is absent from the
// database or names an alias record: the path is then re-walked from the
// root, substituting the alias target whenever an intermediate component
// turns out to be an alias.
func canonicalizeTxn(txn *badger.Txn, path string, resolveLinks bool) (string, error) {
	canonical, err := fspath.Normalize(path)
	if err != nil {
		return "", err
	}

	if !resolveLinks {
		return canonical, nil
	}

	rec, ok, err := getEntry(txn, canonical)
	if err != nil {
		return "", err
	}
	if ok && rec.Kind != recordHardLink {
		return canonical, nil
	}

	resolved := "/"
	for _, part := range fspath.Split(canonical) {
		resolved = fspath.Join(resolved, part)
		rec, ok, err := getEntry(txn, resolved)
		if err != nil {
			return "", err
		}
		if ok && rec.Kind == recordHardLink {
			resolved = rec.Target
		}
	}

	return resolved, nil
}
