package weblog

import (
	"io"
	"log/slog"
)

// DefaultChunkSize is the number of bytes a pipe reads from its source at a
// time.
const DefaultChunkSize = 64 << 10

// Pipe represents a pipe object with an associated ReadAutoCloser, plus the
// settings that control how its contents are ingested.
type Pipe struct {
	Reader    ReadAutoCloser
	err       error
	name      string
	encoding  string
	chunkSize int
	query     *Query
	logger    *slog.Logger
}

// NewPipe returns a pointer to a new empty pipe.
func NewPipe() *Pipe {
	return &Pipe{
		Reader:    ReadAutoCloser{},
		err:       nil,
		encoding:  "utf-8",
		chunkSize: DefaultChunkSize,
		logger:    slog.Default(),
	}
}

// Close closes the pipe's associated reader, and any readers beneath it. This
// is always safe to do, even for a pipe whose source can't be closed, and
// closing twice does nothing.
func (p *Pipe) Close() error {
	if p == nil {
		return nil
	}
	return p.Reader.Close()
}

// Error returns the last error returned by any pipe operation, or nil otherwise.
func (p *Pipe) Error() error {
	if p == nil {
		return nil
	}
	return p.err
}

// Name returns the name of the pipe's source, such as a file path or a command
// line. Pipes created from a plain reader have an empty name.
func (p *Pipe) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Read reads up to len(b) bytes from the data source into b. It returns the
// number of bytes read and any error encountered. At end of file, or on a nil
// pipe, Read returns 0, io.EOF.
func (p *Pipe) Read(b []byte) (int, error) {
	if p == nil {
		return 0, io.EOF
	}
	return p.Reader.Read(b)
}

// SetError sets the pipe's error status to the specified error.
func (p *Pipe) SetError(err error) {
	if p != nil {
		if err != nil {
			p.Close()
		}
		p.err = err
	}
}

// WithReader takes an io.Reader, and associates the pipe with that reader. If
// necessary, the reader will be automatically closed once it has been
// completely read.
func (p *Pipe) WithReader(r io.Reader) *Pipe {
	if p == nil {
		return nil
	}
	p.Reader = NewReadAutoCloser(r)
	return p
}

// WithName sets the name reported for the pipe's source.
func (p *Pipe) WithName(name string) *Pipe {
	if p == nil {
		return nil
	}
	p.name = name
	return p
}

// WithChunkSize sets the number of bytes read from the source at a time.
// Values less than 1 are ignored.
func (p *Pipe) WithChunkSize(n int) *Pipe {
	if p == nil {
		return nil
	}
	if n > 0 {
		p.chunkSize = n
	}
	return p
}

// WithLogger sets the logger that receives the pipe's per-line diagnostics,
// instead of the default slog logger. This is primarily useful for testing.
func (p *Pipe) WithLogger(l *slog.Logger) *Pipe {
	if p == nil {
		return nil
	}
	if l != nil {
		p.logger = l
	}
	return p
}

// WithError sets the pipe's error status to the specified error and returns the
// modified pipe.
func (p *Pipe) WithError(err error) *Pipe {
	p.SetError(err)
	return p
}
