package memfs

import "github.com/marmos91/unifs/internal/fspath"

// canonicalizeLocked normalizes path and, when resolveLinks is set, follows
// hard-link alias entries.
//
// Resolution only happens when the normalized path is absent from the table
// or names an alias entry: the path is then re-walked from the root,
// substituting the alias target whenever an intermediate component turns out
// to be an alias. Callers hold the table lock (read or write).
func (fs *FS) canonicalizeLocked(path string, resolveLinks bool) (string, error) {
	canonical, err := fspath.Normalize(path)
	if err != nil {
		return "", err
	}

	if !resolveLinks {
		return canonical, nil
	}

	if e, ok := fs.entries[canonical]; ok && e.kind != kindHardLink {
		return canonical, nil
	}

	resolved := "/"
	for _, part := range fspath.Split(canonical) {
		resolved = fspath.Join(resolved, part)
		if e, ok := fs.entries[resolved]; ok && e.kind == kindHardLink {
			resolved = e.target
		}
	}

	return resolved, nil
}
