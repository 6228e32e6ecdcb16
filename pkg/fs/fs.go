// Package fs provides the narrow filesystem surface the writers depend on:
// a production implementation backed by the os package with advisory file
// locking, and an in-memory implementation for tests.
package fs

import (
	"io"
	"os"
)

// File is an open, writable file handle.
type File interface {
	io.Writer
	io.Closer

	// Name returns the path the file was opened with.
	Name() string

	// Sync commits written contents to stable storage.
	Sync() error

	// Lock acquires an exclusive advisory lock on the file. It does not
	// block: a lock held elsewhere fails immediately.
	Lock() error

	// Unlock releases the advisory lock.
	Unlock() error
}

// FS opens files for writing.
type FS interface {
	// OpenFile opens path with the given flags and permissions. Flags use
	// os package semantics (os.O_WRONLY, os.O_CREATE, os.O_TRUNC,
	// os.O_APPEND).
	OpenFile(path string, flag int, perm os.FileMode) (File, error)
}
