package weblog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrUnknownEncoding is returned when a pipe is asked to decode its input from
// a text encoding it doesn't recognise.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// encodingAliases maps encoding names commonly used outside the WHATWG
// registry to a name htmlindex knows.
var encodingAliases = map[string]string{
	"utf16le": "utf-16le",
	"ucs2":    "utf-16le",
	"ucs-2":   "utf-16le",
	"binary":  "iso-8859-1",
}

// LookupEncoding returns the text encoding with the given name, such as
// "utf-8", "latin1" or "utf-16le". Names are matched case-insensitively.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := encodingAliases[key]; ok {
		key = alias
	}
	enc, err := htmlindex.Get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// WithEncoding arranges for the pipe's contents to be decoded from the named
// text encoding into UTF-8 as they are read. Input that is not valid in that
// encoding is replaced with the Unicode replacement character rather than
// causing an error. If the encoding is not known, the pipe's error status is
// set.
func (p *Pipe) WithEncoding(name string) *Pipe {
	if p == nil || p.Error() != nil {
		return p
	}
	enc, err := LookupEncoding(name)
	if err != nil {
		return p.WithError(err)
	}
	p.encoding = name
	inner := p.Reader
	p.Reader = NewReadAutoCloser(enc.NewDecoder().Reader(inner), inner)
	return p
}

// Encoding returns the name of the text encoding the pipe decodes its input
// from.
func (p *Pipe) Encoding() string {
	if p == nil {
		return ""
	}
	return p.encoding
}
