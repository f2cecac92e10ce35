package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrUnsupported indicates a file format or operation is not supported
	ErrUnsupported = errors.New("unsupported")

	// ErrCorrupt indicates a file is corrupt or unreadable
	ErrCorrupt = errors.New("corrupt file")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDatabaseMissing indicates a reference database file is absent
	ErrDatabaseMissing = errors.New("database not found")

	// ErrNoChecksum indicates a checksum could not be produced for a file
	ErrNoChecksum = errors.New("checksum unavailable")
)
