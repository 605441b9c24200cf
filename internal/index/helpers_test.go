package index_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/dataindex/internal/index"
	"github.com/calvinalkan/dataindex/pkg/fs"
)

const (
	testWorkDir = "/work"
	testDataDir = "/work/docs/data"
)

// memTree returns an in-memory filesystem with the given files created
// under testDataDir. Paths are slash-separated and relative to the data dir.
func memTree(t *testing.T, files ...string) *fs.Billy {
	t.Helper()

	fsys := fs.NewMemory()
	mem := fsys.Underlying()

	require.NoError(t, mem.MkdirAll(testDataDir, 0o755))

	memWrite(t, fsys, files...)

	return fsys
}

// memWrite adds files under testDataDir to an existing in-memory tree.
func memWrite(t *testing.T, fsys *fs.Billy, files ...string) {
	t.Helper()

	mem := fsys.Underlying()

	for _, f := range files {
		p := filepath.Join(testDataDir, filepath.FromSlash(f))
		require.NoError(t, mem.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, util.WriteFile(mem, p, []byte("a,b\n1,2\n"), 0o644))
	}
}

// testConfig returns a resolved default config pointing at testDataDir.
func testConfig(mutate func(cfg *index.Config)) *index.Config {
	cfg := index.DefaultConfig()
	cfg.EffectiveCwd = testWorkDir
	cfg.DataDirAbs = testDataDir

	if mutate != nil {
		mutate(&cfg)
	}

	cfg.Extensions = index.ParseExtensions(cfg.Ext)

	return &cfg
}

// diskTree creates files under a temp data dir and returns its path.
func diskTree(t *testing.T, files ...string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("a,b\n1,2\n"), 0o644))
	}

	return dir
}

// failingFS fails ReadDir for one directory.
type failingFS struct {
	fs.FS

	failDir string
	err     error
}

func (f *failingFS) ReadDir(path string) ([]os.DirEntry, error) {
	if path == f.failDir {
		return nil, f.err
	}

	return f.FS.ReadDir(path)
}
