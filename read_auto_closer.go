package weblog

import (
	"errors"
	"io"
	"sync"
)

// ReadAutoCloser wraps an io.Reader, and closes it automatically, if closable,
// once it has been completely read. When the reader is layered on top of other
// readers (a decompressor over a file, say), every layer is closed, outermost
// first.
type ReadAutoCloser struct {
	r       io.Reader
	closers []io.Closer
	once    *sync.Once
}

// Read reads up to len(b) bytes from the data source into b. It returns the
// number of bytes read and any error encountered. At end of file, Read returns
// 0, io.EOF. In the EOF case, the data source will be closed.
func (a ReadAutoCloser) Read(b []byte) (n int, err error) {
	if a.r == nil {
		return 0, io.EOF
	}
	n, err = a.r.Read(b)
	if err == io.EOF {
		a.Close()
	}
	return n, err
}

// Close closes every data source associated with a, and returns the errors
// encountered. Only the first call has any effect.
func (a ReadAutoCloser) Close() error {
	if a.once == nil {
		return nil
	}
	var err error
	a.once.Do(func() {
		var errs []error
		for _, c := range a.closers {
			errs = append(errs, c.Close())
		}
		err = errors.Join(errs...)
	})
	return err
}

// NewReadAutoCloser returns a ReadAutoCloser wrapping the supplied Reader. Any
// extra closers are closed after the reader itself, in the order given. This
// lets a reader that wraps another one (for example a gzip stream over an
// *os.File) release the underlying file too.
func NewReadAutoCloser(r io.Reader, underlying ...io.Closer) ReadAutoCloser {
	a := ReadAutoCloser{r: r, once: new(sync.Once)}
	if c, ok := r.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	a.closers = append(a.closers, underlying...)
	return a
}
