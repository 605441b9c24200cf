// Package index scans a data directory and builds the label-grouped index
// of tabular files consumed by the data viewer.
package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/calvinalkan/dataindex/pkg/fs"
)

// Skip reasons, logged at debug level.
const (
	skipHidden     = "hidden"
	skipNotRegular = "not a regular file"
	skipSymlinkDir = "symlink to directory"
	skipExtension  = "extension not included"
	skipOutput     = "index output file"
	skipHiddenRoot = "hidden data-dir"
)

// Build walks cfg.DataDirAbs and groups every included file by label.
//
// A data dir whose own path has a hidden component yields an empty document.
// Directories are read in name order, so the discovery order (and the output)
// is stable across runs. Hidden entries are pruned at every level, so nothing
// below a hidden directory is visited. Symlinks to regular files are
// included; symlinks to directories are not followed. A dangling symlink or
// any other filesystem error aborts the walk, as does a file name that is not
// valid UTF-8.
//
// If cfg.Sort is set, groups are sorted by label and records by path before
// returning.
func Build(ctx context.Context, fsys fs.FS, cfg *Config, log *zap.Logger) (*Document, error) {
	if log == nil {
		log = zap.NewNop()
	}

	root := cfg.DataDirAbs
	if root == "" {
		return nil, ErrDataDirEmpty
	}

	info, err := fsys.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataDirNotFound, root)
		}

		return nil, fmt.Errorf("stat data-dir %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDataDirNotDir, root)
	}

	if hiddenPath(root) {
		log.Debug("skip", zap.String("path", root), zap.String("reason", skipHiddenRoot))

		return NewDocument(), nil
	}

	exts := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts[ext] = true
	}

	w := &walker{
		ctx:  ctx,
		fs:   fsys,
		cfg:  cfg,
		exts: exts,
		log:  log,
		doc:  NewDocument(),
	}

	log.Debug("scan", zap.String("root", root), zap.String("label_mode", cfg.LabelMode), zap.Strings("ext", cfg.Extensions))

	if err := w.walkDir(root, ""); err != nil {
		return nil, err
	}

	if cfg.Sort {
		w.doc.Sort()
	}

	return w.doc, nil
}

type walker struct {
	ctx  context.Context
	fs   fs.FS
	cfg  *Config
	exts map[string]bool
	log  *zap.Logger
	doc  *Document
}

// walkDir visits absDir, whose slash-separated path relative to the root is
// relDir ("" for the root itself).
func (w *walker) walkDir(absDir, relDir string) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	entries, err := w.fs.ReadDir(absDir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", absDir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		rel := path.Join(relDir, name)
		abs := filepath.Join(absDir, name)

		if strings.HasPrefix(name, ".") {
			w.skip(rel, skipHidden)

			continue
		}

		if !utf8.ValidString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidFileName, abs)
		}

		if entry.IsDir() {
			if err := w.walkDir(abs, rel); err != nil {
				return err
			}

			continue
		}

		mode := entry.Type()
		if mode&os.ModeSymlink != 0 {
			target, err := w.fs.Stat(abs)
			if err != nil {
				return fmt.Errorf("stat %s: %w", abs, err)
			}

			mode = target.Mode().Type()
			if mode.IsDir() {
				w.skip(rel, skipSymlinkDir)

				continue
			}
		}

		if !mode.IsRegular() {
			w.skip(rel, skipNotRegular)

			continue
		}

		if !w.exts[strings.ToLower(path.Ext(name))] {
			w.skip(rel, skipExtension)

			continue
		}

		if relDir == "" && name == w.cfg.Output {
			w.skip(rel, skipOutput)

			continue
		}

		label := Label(relDir, w.cfg.LabelMode)
		w.doc.Add(label, NewRecord(rel))
		w.log.Debug("include", zap.String("path", rel), zap.String("label", label))
	}

	return nil
}

// hiddenPath reports whether any component of the cleaned path p starts
// with a dot.
func hiddenPath(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(p)), "/") {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}

	return false
}

func (w *walker) skip(rel, reason string) {
	w.log.Debug("skip", zap.String("path", rel), zap.String("reason", reason))
}
