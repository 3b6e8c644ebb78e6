package shred

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
)

// PatternsPerPass is the number of pattern applications in one pass: the four
// fixed patterns followed by one random pattern.
const PatternsPerPass = 5

const RandomPatternName = "random"

// Pattern is a read-only buffer written repeatedly over every chunk.
type Pattern struct {
	Name string
	Data []byte
}

var fixedPatternBytes = []struct {
	name string
	b    byte
}{
	{"zeros", 0x00},
	{"ones", 0xFF},
	{"0x55", 0x55},
	{"0xAA", 0xAA},
}

// FixedPatterns returns the four constant patterns in application order:
// all zeros, all ones, 0x55, 0xAA.
func FixedPatterns(bufferSize int) []Pattern {
	patterns := make([]Pattern, 0, len(fixedPatternBytes))
	for _, fp := range fixedPatternBytes {
		patterns = append(patterns, Pattern{
			Name: fp.name,
			Data: bytes.Repeat([]byte{fp.b}, bufferSize),
		})
	}
	return patterns
}

// RandomPattern fills a fresh buffer from r. Callers pass crypto/rand.Reader;
// a new buffer is drawn for every pass and never cached.
func RandomPattern(r io.Reader, bufferSize int) (Pattern, error) {
	data := make([]byte, bufferSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return Pattern{}, errors.Wrap(err, "generate random pattern")
	}
	return Pattern{Name: RandomPatternName, Data: data}, nil
}

// writeChunk writes p over the whole chunk, restarting at byte 0 of p for
// every buffer-length segment. The last segment is a prefix of p.
func writeChunk(w io.WriterAt, c Chunk, p []byte) error {
	if len(p) == 0 {
		return errors.New("empty pattern buffer")
	}

	offset := c.Offset
	remaining := c.Length
	for remaining > 0 {
		seg := p
		if int64(len(seg)) > remaining {
			seg = seg[:remaining]
		}
		n, err := w.WriteAt(seg, offset)
		if err != nil {
			return err
		}
		if n != len(seg) {
			return io.ErrShortWrite
		}
		offset += int64(n)
		remaining -= int64(n)
	}
	return nil
}
