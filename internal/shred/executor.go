package shred

import (
	"context"
	"io"
	"time"

	"thermite/internal/logging"

	"github.com/cockroachdb/errors"
)

// target is the open file the executor writes through. Writers only use
// WriteAt, so they never share a seek position.
type target interface {
	io.WriterAt
	Sync() error
	Close() error
}

// chunkError tags a writer failure with the chunk it happened on.
type chunkError struct {
	chunk Chunk
	err   error
}

func (e *chunkError) Error() string { return e.err.Error() }
func (e *chunkError) Unwrap() error { return e.err }

// executor applies every pattern of every pass to all chunks of one file.
type executor struct {
	path       string
	file       target
	chunks     []Chunk
	pool       *workerPool
	fixed      []Pattern
	random     io.Reader
	bufferSize int
	passes     int
	sync       bool
	reporter   Reporter
	logger     *logging.AppLogger
}

// run performs passes 1..N. Within a pass the fixed patterns are applied in
// order, then a random pattern drawn fresh for that pass. It stops at the
// first failure.
func (e *executor) run(ctx context.Context) error {
	total := e.passes * PatternsPerPass
	applied := 0

	for pass := 1; pass <= e.passes; pass++ {
		e.reporter.Report(Event{
			Kind:    EventPassStarted,
			Path:    e.path,
			Pass:    pass,
			Passes:  e.passes,
			Applied: applied,
			Total:   total,
		})

		random, err := RandomPattern(e.random, e.bufferSize)
		if err != nil {
			return &Error{
				Kind:    KindIO,
				Stage:   StageOverwrite,
				Path:    e.path,
				Pass:    pass,
				Pattern: RandomPatternName,
				Err:     errors.WithHint(err, "the system random source failed; nothing was written in this pass"),
			}
		}

		patterns := make([]Pattern, 0, PatternsPerPass)
		patterns = append(patterns, e.fixed...)
		patterns = append(patterns, random)

		for i, p := range patterns {
			if err := e.apply(ctx, pass, p); err != nil {
				return err
			}
			applied++
			e.reporter.Report(Event{
				Kind:         EventPatternApplied,
				Path:         e.path,
				Pass:         pass,
				Passes:       e.passes,
				Pattern:      p.Name,
				PatternIndex: i + 1,
				Applied:      applied,
				Total:        total,
			})
		}
	}

	return nil
}

// apply writes one pattern over every chunk and waits for all writers
// before returning, so two patterns never overlap.
func (e *executor) apply(ctx context.Context, pass int, p Pattern) error {
	start := time.Now()

	err := e.pool.runStage(ctx, len(e.chunks), func(i int) error {
		c := e.chunks[i]
		if err := writeChunk(e.file, c, p.Data); err != nil {
			return &chunkError{chunk: c, err: err}
		}
		return nil
	})
	if err != nil {
		chunkNo := 0
		cause := err
		var ce *chunkError
		if errors.As(err, &ce) {
			chunkNo = ce.chunk.Index + 1
			cause = ce.err
		}
		e.logger.Debug("Pattern aborted", "pass", pass, "pattern", p.Name, "chunk", chunkNo, "error", cause)
		return &Error{
			Kind:    KindIO,
			Stage:   StageOverwrite,
			Path:    e.path,
			Pass:    pass,
			Pattern: p.Name,
			Chunk:   chunkNo,
			Err:     errors.WithHint(errors.WithStack(cause), overwriteHint(cause)),
		}
	}

	if e.sync {
		if err := e.file.Sync(); err != nil {
			return &Error{
				Kind:    KindIO,
				Stage:   StageOverwrite,
				Path:    e.path,
				Pass:    pass,
				Pattern: p.Name,
				Err:     errors.WithHint(errors.Wrap(err, "sync"), overwriteHint(err)),
			}
		}
	}

	e.logger.LogPerformance("pattern "+p.Name, start)
	return nil
}
