package weblog

import (
	"io"
)

// String returns the contents of the pipe as a string, decoded from its text
// encoding, or an error, and closes the pipe after reading. If there is an
// error reading, the pipe's error status is also set.
func (p *Pipe) String() (string, error) {
	if p.Error() != nil {
		return "", p.Error()
	}
	defer p.Close()
	res, err := io.ReadAll(p)
	if err != nil {
		p.SetError(err)
		return "", err
	}
	return string(res), nil
}
