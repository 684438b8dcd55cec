package vfs

// WalkFunc is called by Walk for every entry visited.
type WalkFunc func(entry DirEntry) error

// Walk traverses the tree rooted at root depth-first, calling fn for every
// entry below it. The root itself is not visited. Directories are descended
// into after fn has seen them; symbolic links are not followed.
func Walk(fsys FileSystem, root string, fn WalkFunc) error {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := fn(entry); err != nil {
			return err
		}

		fileType, err := entry.FileType()
		if err != nil {
			return err
		}

		if fileType.IsDir() {
			if err := Walk(fsys, entry.Path(), fn); err != nil {
				return err
			}
		}
	}

	return nil
}
