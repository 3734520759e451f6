package fo

import "io"

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves the path to an absolute path and stats it.
	Resolve(rawPath string) (*Path, error)

	// FindFiles returns the regular files under root whose slash-separated
	// path relative to root matches the doublestar pattern (e.g. "**/*.txt").
	// Directories and other non-regular entries are never returned.
	FindFiles(root *Path, pattern string) ([]*Path, error)

	// Open opens a file for reading.
	Open(path *Path) (io.ReadCloser, error)

	// CopyFile copies src to dst, replacing dst if it exists.
	// Permission bits and access/modification times are carried over.
	CopyFile(src *Path, dst string) error

	// MakeDir creates a directory. An existing directory is not an error.
	// When parents is false the parent must already exist.
	MakeDir(path string, parents bool) error
}
