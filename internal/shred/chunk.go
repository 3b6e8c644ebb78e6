package shred

import "runtime"

// Chunk is a byte range [Offset, Offset+Length) of the target file.
type Chunk struct {
	Index  int
	Offset int64
	Length int64
}

// End returns the offset one past the last byte of the chunk.
func (c Chunk) End() int64 {
	return c.Offset + c.Length
}

// Concurrency returns the writer pool size: the available parallelism capped
// at maxWorkers, never below 1. A non-positive maxWorkers means no cap.
func Concurrency(maxWorkers int) int {
	n := runtime.GOMAXPROCS(0)
	if maxWorkers > 0 && n > maxWorkers {
		n = maxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ChunkLength returns the nominal chunk length for a file of the given size:
// max(bufferSize, size/(2*concurrency)), and at least 1.
func ChunkLength(size int64, concurrency, bufferSize int) int64 {
	if concurrency < 1 {
		concurrency = 1
	}
	length := size / int64(2*concurrency)
	if length < int64(bufferSize) {
		length = int64(bufferSize)
	}
	if length < 1 {
		length = 1
	}
	return length
}

// Plan partitions [0, size) into contiguous, non-overlapping chunks in
// increasing offset order. The last chunk may be shorter than the rest. A
// zero-length file yields no chunks.
//
// Plan is a pure function of its arguments, so the same plan can be derived
// again for every pattern instead of being stored.
func Plan(size int64, concurrency, bufferSize int) []Chunk {
	if size <= 0 {
		return nil
	}

	length := ChunkLength(size, concurrency, bufferSize)
	chunks := make([]Chunk, 0, (size+length-1)/length)
	for offset := int64(0); offset < size; offset += length {
		n := length
		if remaining := size - offset; remaining < n {
			n = remaining
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Offset: offset, Length: n})
	}
	return chunks
}
