package fs

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// Billy implements [FS] on top of a go-billy filesystem.
//
// Tests use it with [NewMemory] to build data trees without touching disk.
// Errors are wrapped with the operation and path but still satisfy
// errors.Is(err, os.ErrNotExist) where the underlying error does.
type Billy struct {
	fs billy.Filesystem
}

// NewBilly wraps fsys. Panics if fsys is nil.
func NewBilly(fsys billy.Filesystem) *Billy {
	if fsys == nil {
		panic("fsys is nil")
	}

	return &Billy{fs: fsys}
}

// NewMemory returns a [Billy] backed by an empty in-memory filesystem.
func NewMemory() *Billy {
	return NewBilly(memfs.New())
}

// Underlying returns the wrapped billy filesystem, for seeding test trees.
func (b *Billy) Underlying() billy.Filesystem {
	return b.fs
}

func (b *Billy) ReadFile(path string) ([]byte, error) {
	f, err := b.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", path, err)
	}

	data, readErr := io.ReadAll(f)
	closeErr := f.Close()

	if readErr != nil {
		return nil, fmt.Errorf("billy: read %q: %w", path, readErr)
	}

	if closeErr != nil {
		return nil, fmt.Errorf("billy: close %q: %w", path, closeErr)
	}

	return data, nil
}

// WriteFileAtomic writes to a temp file next to path and renames it into place.
func (b *Billy) WriteFileAtomic(path string, reader io.Reader) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := util.TempFile(b.fs, dir, "."+base+"-")
	if err != nil {
		return fmt.Errorf("billy: create temp for %q: %w", path, err)
	}

	tmpName := tmp.Name()

	_, copyErr := io.Copy(tmp, reader)
	closeErr := tmp.Close()

	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = b.fs.Remove(tmpName)

		return fmt.Errorf("billy: write %q: %w", tmpName, err)
	}

	if err := b.fs.Rename(tmpName, path); err != nil {
		_ = b.fs.Remove(tmpName)

		return fmt.Errorf("billy: rename %q: %w", tmpName, err)
	}

	return nil
}

func (b *Billy) ReadDir(path string) ([]os.DirEntry, error) {
	infos, err := b.fs.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("billy: readdir %q: %w", path, err)
	}

	entries := make([]os.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, iofs.FileInfoToDirEntry(info))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

func (b *Billy) Stat(path string) (os.FileInfo, error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", path, err)
	}

	return info, nil
}

func (b *Billy) Exists(path string) (bool, error) {
	_, err := b.fs.Stat(path)

	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("billy: stat %q: %w", path, err)
	}
}

// Compile-time interface check.
var _ FS = (*Billy)(nil)
