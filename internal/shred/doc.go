// Package shred implements thermite's secure delete engine.
//
// A secure delete runs in three phases:
//
//   - Planning partitions the file into contiguous chunks. The chunk length is
//     max(BufferSize, size/(2*workers)) and the worker count is
//     min(GOMAXPROCS, MaxWorkers).
//   - Overwriting applies, for each of N passes, the fixed patterns zeros,
//     ones, 0x55 and 0xAA followed by a random pattern drawn fresh from
//     crypto/rand. Every pattern covers every chunk before the next one
//     starts, and the file is synced after each pattern when Sync is set.
//     Chunks are written in parallel by a worker pool that lives for the
//     whole operation.
//   - Finalizing clears the immutability flag where the platform has one,
//     truncates the file, revokes its permissions and resets its timestamps,
//     then renames it to a random 32-character hex name in the same
//     directory and unlinks it.
//
// Failures are reported as *Error. Kind distinguishes invalid input (nothing
// touched), fatal I/O errors (the file may be partially overwritten or left
// under a random name) and non-fatal metadata errors. Stage, Pass, Pattern
// and Chunk locate the failure.
//
// Basic usage:
//
//	s, err := shred.New(shred.DefaultOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	res, err := s.SecureDelete(ctx, "/tmp/secret.txt")
//
// Progress is delivered through the Reporter in Options. Events arrive on the
// goroutine that called SecureDelete, after each barrier, so a Reporter may
// inspect the file between patterns.
package shred
