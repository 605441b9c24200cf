package index

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/calvinalkan/dataindex/pkg/fs"
)

// Write transcodes the UTF-8 document data to cfg.Encoding and atomically
// replaces cfg.OutputPath() with it. Returns the path written.
func Write(fsys fs.FS, cfg *Config, data []byte) (string, error) {
	encoded, err := Transcode(data, cfg.Encoding)
	if err != nil {
		return "", err
	}

	out := cfg.OutputPath()

	if err := fsys.WriteFileAtomic(out, bytes.NewReader(encoded)); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}

	return out, nil
}

// Result summarizes one [Generate] run.
type Result struct {
	Doc *Document
	// Data is the encoded document (UTF-8).
	Data []byte
	// Path is the written file; empty on a dry run.
	Path string
}

// Generate builds the document, encodes it, and writes it unless cfg.DryRun
// is set. now stamps the manifest format.
func Generate(ctx context.Context, fsys fs.FS, cfg *Config, log *zap.Logger, now time.Time) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	doc, err := Build(ctx, fsys, cfg, log)
	if err != nil {
		return Result{}, err
	}

	data, err := Encode(doc, cfg.Format, now)
	if err != nil {
		return Result{}, err
	}

	res := Result{Doc: doc, Data: data}

	if cfg.DryRun {
		log.Debug("dry run, not writing", zap.String("path", cfg.OutputPath()))

		return res, nil
	}

	res.Path, err = Write(fsys, cfg, data)
	if err != nil {
		return Result{}, err
	}

	log.Debug("wrote index", zap.String("path", res.Path), zap.String("encoding", cfg.Encoding), zap.Int("bytes", len(data)))

	return res, nil
}
