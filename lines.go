package weblog

import (
	"io"
	"iter"
	"strings"
)

// Lines reassembles a sequence of chunks of text, split at arbitrary points,
// into a sequence of lines. Every line includes its terminating newline,
// except the last line of the input if it doesn't have one. Concatenating the
// lines gives exactly the concatenation of the chunks.
//
// The sequence is produced lazily, as the chunks arrive, and can only be
// iterated once if the chunks can only be iterated once.
func Lines(chunks iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		var pending []byte
		for chunk := range chunks {
			for {
				i := strings.IndexByte(chunk, '\n')
				if i < 0 {
					break
				}
				line := chunk[:i+1]
				if len(pending) > 0 {
					line = string(append(pending, line...))
					pending = pending[:0]
				}
				if !yield(line) {
					return
				}
				chunk = chunk[i+1:]
			}
			pending = append(pending, chunk...)
		}
		if len(pending) > 0 {
			yield(string(pending))
		}
	}
}

// Chunks returns a sequence of the pipe's contents, read a chunk at a time.
// Chunk boundaries fall wherever the underlying reader puts them, so a chunk
// may end in the middle of a line. If there is an error reading the pipe, the
// sequence ends and the pipe's error status is set. A pipe which already has
// error status produces an empty sequence.
func (p *Pipe) Chunks() iter.Seq[string] {
	return func(yield func(string) bool) {
		if p == nil || p.Error() != nil {
			return
		}
		size := p.chunkSize
		if size <= 0 {
			size = DefaultChunkSize
		}
		buf := make([]byte, size)
		for {
			n, err := p.Reader.Read(buf)
			if n > 0 && !yield(string(buf[:n])) {
				return
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				p.SetError(err)
				return
			}
		}
	}
}

// Lines returns a sequence of the lines in the pipe, as produced by Lines
// over the pipe's Chunks. Check the pipe's Error once the sequence ends to
// find out whether the whole input was read.
func (p *Pipe) Lines() iter.Seq[string] {
	return Lines(p.Chunks())
}
