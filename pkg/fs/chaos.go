package fs

import (
	"errors"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
//
// The zero value disables all fault injection.
type ChaosConfig struct {
	// ReadFailRate controls how often ReadFile fails, returning no data and
	// EACCES or EIO.
	ReadFailRate float64

	// ReadDirFailRate controls how often ReadDir fails entirely.
	// Returns EACCES, EIO, EMFILE, or ENFILE.
	ReadDirFailRate float64

	// ReadDirPartialRate controls how often ReadDir returns a prefix of the
	// entries along with EIO, like os.ReadDir failing partway through.
	ReadDirPartialRate float64

	// StatFailRate controls how often Stat and Exists fail with EACCES or EIO.
	StatFailRate float64

	// WriteFailRate controls how often WriteFileAtomic fails before touching
	// the target. Returns EIO, ENOSPC, EDQUOT, or EROFS. The target is never
	// left half written.
	WriteFailRate float64
}

// ChaosMode controls how [Chaos] behaves.
type ChaosMode uint8

const (
	// ChaosModeActive injects faults according to [ChaosConfig]. Default.
	ChaosModeActive ChaosMode = iota

	// ChaosModeNoOp passes every call through to the wrapped [FS].
	ChaosModeNoOp
)

// ChaosStats reports how many faults were injected per operation.
type ChaosStats struct {
	ReadFails       int64
	ReadDirFails    int64
	PartialReadDirs int64
	StatFails       int64
	WriteFails      int64
}

// chaosError marks an injected error. It wraps an [*fs.PathError] carrying a
// real [syscall.Errno], so os.IsPermission and friends still work.
type chaosError struct {
	Err error
}

func (e *chaosError) Error() string {
	return "chaos: " + e.Err.Error()
}

func (e *chaosError) Unwrap() error {
	return e.Err
}

// IsChaosErr reports whether err (or any wrapped error) was injected by [Chaos].
func IsChaosErr(err error) bool {
	var injected *chaosError

	return errors.As(err, &injected)
}

// Chaos wraps an [FS] and injects random failures for testing.
//
// Chaos never injects ENOENT: any os.IsNotExist result comes from the wrapped
// filesystem. Each call decides independently whether to inject; there is no
// per-path sticky state.
type Chaos struct {
	fs     FS
	config ChaosConfig
	mode   atomic.Uint32

	rngMu sync.Mutex
	rng   *rand.Rand

	readFails       atomic.Int64
	readDirFails    atomic.Int64
	partialReadDirs atomic.Int64
	statFails       atomic.Int64
	writeFails      atomic.Int64
}

// NewChaos creates a [Chaos] filesystem wrapping underlying. The seed makes
// fault injection reproducible. Panics if underlying or config is nil.
func NewChaos(underlying FS, seed int64, config *ChaosConfig) *Chaos {
	if underlying == nil {
		panic("underlying fs is nil")
	}

	if config == nil {
		panic("config is nil")
	}

	return &Chaos{
		fs:     underlying,
		config: *config,
		rng:    rand.New(rand.NewPCG(uint64(seed), uint64(seed))),
	}
}

// SetMode switches between injecting and passthrough. Safe for concurrent use.
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		ReadFails:       c.readFails.Load(),
		ReadDirFails:    c.readDirFails.Load(),
		PartialReadDirs: c.partialReadDirs.Load(),
		StatFails:       c.statFails.Load(),
		WriteFails:      c.writeFails.Load(),
	}
}

// TotalFaults returns the number of injected faults across all operations.
func (c *Chaos) TotalFaults() int64 {
	s := c.Stats()

	return s.ReadFails + s.ReadDirFails + s.PartialReadDirs + s.StatFails + s.WriteFails
}

// ReadFile reads a file with fault injection.
func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if c.should(c.config.ReadFailRate) {
		c.readFails.Add(1)

		return nil, pathError("read", path, c.pick(syscall.EACCES, syscall.EIO))
	}

	return c.fs.ReadFile(path)
}

// WriteFileAtomic writes a file with fault injection.
func (c *Chaos) WriteFileAtomic(path string, r io.Reader) error {
	if c.should(c.config.WriteFailRate) {
		c.writeFails.Add(1)

		return pathError("write", path, c.pick(syscall.EIO, syscall.ENOSPC, syscall.EDQUOT, syscall.EROFS))
	}

	return c.fs.WriteFileAtomic(path, r)
}

// ReadDir reads directory contents with fault injection.
func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	if c.should(c.config.ReadDirFailRate) {
		c.readDirFails.Add(1)

		return nil, pathError("readdir", path, c.pick(syscall.EACCES, syscall.EIO, syscall.EMFILE, syscall.ENFILE))
	}

	entries, err := c.fs.ReadDir(path)
	if err != nil {
		return nil, err
	}

	if len(entries) > 1 && c.should(c.config.ReadDirPartialRate) {
		c.partialReadDirs.Add(1)
		cutoff := c.randIntn(len(entries)-1) + 1

		return entries[:cutoff], pathError("readdir", path, syscall.EIO)
	}

	return entries, nil
}

// Stat returns file info with fault injection.
func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	if c.should(c.config.StatFailRate) {
		c.statFails.Add(1)

		return nil, pathError("stat", path, c.pick(syscall.EACCES, syscall.EIO))
	}

	return c.fs.Stat(path)
}

// Exists checks file existence with fault injection.
func (c *Chaos) Exists(path string) (bool, error) {
	if c.should(c.config.StatFailRate) {
		c.statFails.Add(1)

		return false, pathError("stat", path, c.pick(syscall.EACCES, syscall.EIO))
	}

	return c.fs.Exists(path)
}

func (c *Chaos) should(rate float64) bool {
	if ChaosMode(c.mode.Load()) != ChaosModeActive || rate <= 0 {
		return false
	}

	c.rngMu.Lock()
	defer c.rngMu.Unlock()

	return c.rng.Float64() < rate
}

func (c *Chaos) randIntn(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()

	return c.rng.IntN(n)
}

func (c *Chaos) pick(errnos ...syscall.Errno) syscall.Errno {
	return errnos[c.randIntn(len(errnos))]
}

func pathError(op, path string, errno syscall.Errno) error {
	return &chaosError{Err: &fs.PathError{Op: op, Path: path, Err: errno}}
}

var _ FS = (*Chaos)(nil)
