// Package vfs defines the uniform filesystem contract shared by every
// backend in this module: the in-memory engine, the os-backed passthrough,
// the persistent badger backend, the overlay filesystem, and the decorators.
//
// All paths are slash-separated. Relative paths are interpreted against the
// filesystem root, so "foo/bar" and "/foo/bar" name the same entry. Backends
// normalize paths before use: "." components are dropped and ".." components
// pop the previous one (popping past the root is an error).
//
// Operations return structured *Error values categorized by ErrorCode, so
// callers can branch on behavior (IsNotFound, IsAlreadyExists, ...) without
// knowing which backend they are talking to.
package vfs

// FileSystem is the common operation contract.
//
// Implementations must be safe for concurrent use. Operations that read or
// mutate several entries at once (rename, copy, remove_dir_all) behave
// atomically on backends that can provide it; composite filesystems document
// where they cannot (see the overlay's cross-backend copy and rename).
type FileSystem interface {
	// Canonicalize resolves a path to its canonical absolute form without
	// requiring the final component to exist.
	Canonicalize(path string) (string, error)

	// Copy copies the contents and permissions of the file at from to the
	// file at to, returning the number of bytes copied. The source must be
	// a regular file.
	Copy(from, to string) (uint64, error)

	// CreateDir creates a single directory. The parent must already exist.
	CreateDir(path string) error

	// CreateDirAll creates a directory and any missing ancestors.
	CreateDirAll(path string) error

	// CreateFile opens a file for writing, creating it if missing and
	// truncating it if present.
	CreateFile(path string) (File, error)

	// CreateNewFile creates a file open for reading and writing, failing
	// if the path already exists.
	CreateNewFile(path string) (File, error)

	// Exists reports whether the path names an existing entry.
	Exists(path string) (bool, error)

	// HardLink creates a new link at link referring to the entry at
	// original.
	HardLink(original, link string) error

	// Metadata returns metadata for the entry at path, following links.
	Metadata(path string) (Metadata, error)

	// NewDirBuilder returns a directory builder for this filesystem.
	NewDirBuilder() DirBuilder

	// NewOpenOptions returns an open-options builder for this filesystem.
	NewOpenOptions() OpenOptions

	// OpenFile opens an existing file for reading.
	OpenFile(path string) (File, error)

	// Read returns the entire contents of the file at path.
	Read(path string) ([]byte, error)

	// ReadDir lists the directory at path. The result is a snapshot,
	// sorted by entry name.
	ReadDir(path string) ([]DirEntry, error)

	// ReadLink returns the target of the symbolic link at path.
	ReadLink(path string) (string, error)

	// ReadToString returns the contents of the file at path as a string.
	// Contents that are not valid UTF-8 are an error.
	ReadToString(path string) (string, error)

	// RemoveDir removes an empty directory.
	RemoveDir(path string) error

	// RemoveDirAll removes a directory and everything below it.
	RemoveDirAll(path string) error

	// RemoveFile removes a regular file.
	RemoveFile(path string) error

	// Rename moves the entry at from (and, for directories, its whole
	// subtree) to to.
	Rename(from, to string) error

	// SetPermissions replaces the permissions of the entry at path.
	SetPermissions(path string, perm Permissions) error

	// SymlinkMetadata returns metadata for the entry at path without
	// following a trailing symbolic link.
	SymlinkMetadata(path string) (Metadata, error)

	// Write replaces the contents of the file at path, creating it if
	// missing.
	Write(path string, data []byte) error
}

// OpenOptions configures how a file is opened. Builders are obtained from
// the filesystem the file will be opened on and consumed by Open.
//
// Flag interactions follow the usual platform conventions: Append implies
// Write, and CreateNew implies Create.
type OpenOptions interface {
	// Read opens the file for reading
	Read(read bool) OpenOptions

	// Write opens the file for writing
	Write(write bool) OpenOptions

	// Append moves the cursor to the end of the file before every write
	Append(append bool) OpenOptions

	// Truncate empties the file on open
	Truncate(truncate bool) OpenOptions

	// Create creates the file if it does not exist (requires Write)
	Create(create bool) OpenOptions

	// CreateNew requires that the file does not already exist
	CreateNew(createNew bool) OpenOptions

	// Open opens the file at path with the configured options
	Open(path string) (File, error)
}

// DirBuilder configures directory creation.
type DirBuilder interface {
	// Recursive also creates missing ancestors, like CreateDirAll, and
	// tolerates the directory already existing
	Recursive(recursive bool) DirBuilder

	// Create creates the directory at path
	Create(path string) error
}
