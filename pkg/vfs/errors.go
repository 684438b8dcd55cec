package vfs

import "errors"

// Error represents a domain error from filesystem operations.
//
// These are business logic errors (path not found, directory not empty,
// etc.) as opposed to infrastructure errors (disk failure, database error).
// Backends wrap infrastructure errors with ErrOther.
type Error struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the filesystem path related to the error (if applicable)
	Path string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode represents the category of a filesystem error.
//
// Every backend maps its failures onto these categories so that callers can
// branch on behavior without knowing which backend produced the error.
type ErrorCode int

const (
	// ErrNotFound indicates the path does not exist
	ErrNotFound ErrorCode = iota

	// ErrAlreadyExists indicates an entry with the name already exists
	ErrAlreadyExists

	// ErrInvalidInput indicates invalid parameters were provided
	// Examples: opening a directory as a file, removing the root directory
	ErrInvalidInput

	// ErrDirectoryNotEmpty indicates a directory cannot be removed because
	// it still has children
	ErrDirectoryNotEmpty

	// ErrPermissionDenied indicates the operation violated the permission
	// model (e.g. writing through a handle not opened for writing)
	ErrPermissionDenied

	// ErrReadOnly indicates the operation failed because the filesystem is
	// read-only
	ErrReadOnly

	// ErrUnsupported indicates the operation is not supported by the
	// backend (e.g. symbolic links on the in-memory filesystem)
	ErrUnsupported

	// ErrOther indicates a failure that fits no other category
	ErrOther
)

// String returns the error code name for logging and metrics labels.
func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "NotFound"
	case ErrAlreadyExists:
		return "AlreadyExists"
	case ErrInvalidInput:
		return "InvalidInput"
	case ErrDirectoryNotEmpty:
		return "DirectoryNotEmpty"
	case ErrPermissionDenied:
		return "PermissionDenied"
	case ErrReadOnly:
		return "ReadOnly"
	case ErrUnsupported:
		return "Unsupported"
	default:
		return "Other"
	}
}

// CodeOf extracts the ErrorCode from err.
//
// Returns ErrOther for errors that are not *Error (or do not wrap one) and
// for nil errors, so callers should check err != nil first.
func CodeOf(err error) ErrorCode {
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Code
	}
	return ErrOther
}

func is(err error, code ErrorCode) bool {
	var fsErr *Error
	return errors.As(err, &fsErr) && fsErr.Code == code
}

// IsNotFound reports whether err indicates a missing path.
func IsNotFound(err error) bool { return is(err, ErrNotFound) }

// IsAlreadyExists reports whether err indicates a name collision.
func IsAlreadyExists(err error) bool { return is(err, ErrAlreadyExists) }

// IsInvalidInput reports whether err indicates invalid parameters.
func IsInvalidInput(err error) bool { return is(err, ErrInvalidInput) }

// IsDirectoryNotEmpty reports whether err indicates a non-empty directory.
func IsDirectoryNotEmpty(err error) bool { return is(err, ErrDirectoryNotEmpty) }

// IsPermissionDenied reports whether err indicates a permission failure.
func IsPermissionDenied(err error) bool { return is(err, ErrPermissionDenied) }

// IsReadOnly reports whether err indicates a read-only filesystem.
func IsReadOnly(err error) bool { return is(err, ErrReadOnly) }

// IsUnsupported reports whether err indicates an unsupported operation.
func IsUnsupported(err error) bool { return is(err, ErrUnsupported) }
