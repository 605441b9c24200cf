// Package fs provides the filesystem abstraction used by the indexer.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the indexer needs
//   - [Real]: production implementation using the [os] package
//   - [Billy]: adapter over a go-billy filesystem (in-memory trees in tests)
//
// Example usage:
//
//	fsys := fs.NewReal()
//	entries, err := fsys.ReadDir("docs/data")
//	if err != nil {
//	    return err
//	}
//
//	for _, e := range entries {
//	    fmt.Println(e.Name())
//	}
package fs

import (
	"io"
	"os"
)

// FS defines the filesystem operations for walking a data directory and
// writing the generated index.
//
// All methods mirror their [os] package equivalents. Paths use OS semantics
// (like the os package and path/filepath), not the slash-separated paths used
// by the standard library io/fs package.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes the contents of r to path atomically.
	// Uses a temp file in the same directory + rename, so readers never
	// observe a partially written file.
	WriteFileAtomic(path string, r io.Reader) error

	// ReadDir reads a directory and returns its entries. See [os.ReadDir].
	// Entries are sorted by name. Symlinks are reported as symlinks and
	// are not followed.
	ReadDir(path string) ([]os.DirEntry, error)

	// Stat returns file info, following symlinks. See [os.Stat].
	// Returns an error matching [os.ErrNotExist] if the path doesn't exist.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}
