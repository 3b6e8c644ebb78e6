package shred

import (
	"context"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"time"

	"thermite/internal/logging"
	"thermite/pkg/fileops"

	"github.com/cockroachdb/errors"
)

const (
	DefaultPasses     = 3
	DefaultMaxWorkers = 8
	DefaultBufferSize = 1024 * 1024
)

// Options configures a Shredder.
type Options struct {
	// Passes is the number of overwrite passes; must be positive.
	Passes int
	// MaxWorkers caps the writer pool at min(GOMAXPROCS, MaxWorkers).
	MaxWorkers int
	// BufferSize is the pattern buffer length and minimum chunk length.
	BufferSize int
	// Sync flushes the file after every pattern.
	Sync bool
	// ProtectSystemPaths refuses targets inside reserved system directories.
	ProtectSystemPaths bool
	// Reporter receives progress events; nil means NopReporter.
	Reporter Reporter
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		Passes:             DefaultPasses,
		MaxWorkers:         DefaultMaxWorkers,
		BufferSize:         DefaultBufferSize,
		Sync:               true,
		ProtectSystemPaths: true,
	}
}

// Result describes a completed secure delete.
type Result struct {
	Path         string
	Size         int64
	Passes       int
	Workers      int
	Chunks       int
	Applications int
	// FinalName is the random name the file carried before it was unlinked.
	FinalName string
	// MetadataErr is the non-fatal metadata strip failure, if any.
	MetadataErr error
	Duration    time.Duration
}

// Shredder runs secure deletes. It holds no per-file state, so one Shredder
// may be reused for any number of files, one at a time or concurrently.
type Shredder struct {
	opts   Options
	logger *logging.AppLogger
	random io.Reader
	open   func(path string) (target, error)
	// newFinalizer is swapped in tests to observe finalization.
	newFinalizer func() *finalizer
}

// New validates opts and returns a Shredder. A non-positive pass count is
// rejected with an InvalidInput error.
func New(opts Options, logger *logging.AppLogger) (*Shredder, error) {
	if opts.Passes <= 0 {
		return nil, invalidInput(StageValidate, "", errors.Newf("pass count must be positive, got %d", opts.Passes), "use --passes 1 or more")
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = DefaultMaxWorkers
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter
	}
	if logger == nil {
		logger = logging.GetDefault()
	}

	s := &Shredder{
		opts:   opts,
		logger: logger,
		random: rand.Reader,
		open:   openTarget,
	}
	s.newFinalizer = func() *finalizer {
		return newFinalizer(s.random, s.opts.Reporter, s.logger)
	}
	return s, nil
}

func openTarget(path string) (target, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}

// Options returns the effective options.
func (s *Shredder) Options() Options {
	return s.opts
}

// SecureDelete overwrites path with every pattern of every pass, strips its
// metadata, renames it to a random name and unlinks it.
//
// Errors are *Error values. InvalidInput errors are returned before anything
// is written. IO errors during overwrite leave the file partially overwritten
// under its original name and skip finalization. A metadata failure does not
// stop the operation and is returned in Result.MetadataErr.
func (s *Shredder) SecureDelete(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	log := s.logger.With("path", path)

	if err := fileops.ValidateTarget(path, s.opts.ProtectSystemPaths); err != nil {
		hint := ""
		if errors.Is(err, fileops.ErrReservedPath) {
			hint = "pass --force to shred files in system directories"
		}
		return nil, invalidInput(StageValidate, path, err, hint)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, invalidInput(StageValidate, path, err, "")
	}
	size := info.Size()

	file, err := s.open(path)
	if err != nil {
		return nil, invalidInput(StagePlan, path, errors.Wrap(err, "open for read-write"), "check that you own the file and it is writable")
	}
	closed := false
	defer func() {
		if !closed {
			file.Close()
		}
	}()

	workers := Concurrency(s.opts.MaxWorkers)
	chunks := Plan(size, workers, s.opts.BufferSize)
	total := s.opts.Passes * PatternsPerPass
	log.Debug("Planned overwrite", "size", size, "workers", workers, "chunks", len(chunks), "passes", s.opts.Passes)

	s.opts.Reporter.Report(Event{
		Kind:    EventStarted,
		Path:    path,
		Size:    size,
		Workers: workers,
		Chunks:  len(chunks),
		Passes:  s.opts.Passes,
		Total:   total,
	})

	result := &Result{
		Path:    path,
		Size:    size,
		Passes:  s.opts.Passes,
		Workers: workers,
		Chunks:  len(chunks),
	}

	if len(chunks) > 0 {
		pool := newWorkerPool(workers)
		exec := &executor{
			path:       path,
			file:       file,
			chunks:     chunks,
			pool:       pool,
			fixed:      FixedPatterns(s.opts.BufferSize),
			random:     s.random,
			bufferSize: s.opts.BufferSize,
			passes:     s.opts.Passes,
			sync:       s.opts.Sync,
			reporter:   s.opts.Reporter,
			logger:     log,
		}
		err := exec.run(ctx)
		pool.close()
		if err != nil {
			log.Debug("Overwrite failed", "error", err)
			return nil, err
		}
		result.Applications = total
	} else {
		log.Debug("Empty file, nothing to overwrite")
	}

	closed = true
	if err := file.Close(); err != nil {
		return nil, &Error{Kind: KindIO, Stage: StageOverwrite, Path: path, Err: errors.Wrap(err, "close")}
	}

	fin := s.newFinalizer()
	fin.logger = log
	finalPath, metaErr, err := fin.finalize(path)
	result.MetadataErr = metaErr
	if err != nil {
		log.Debug("Finalization failed", "error", err)
		return nil, err
	}
	if finalPath != "" {
		result.FinalName = filepath.Base(finalPath)
	}

	result.Duration = time.Since(start)
	s.opts.Reporter.Report(Event{
		Kind:    EventCompleted,
		Path:    path,
		Size:    size,
		Passes:  s.opts.Passes,
		Applied: result.Applications,
		Total:   total,
		NewName: result.FinalName,
	})
	log.Debug("Secure delete completed", "duration", result.Duration)

	return result, nil
}
