package weblog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// Echo returns a pipe containing the supplied string.
func Echo(s string) *Pipe {
	return NewPipe().WithReader(strings.NewReader(s))
}

// Exec runs an external command and returns a pipe that reads the command's
// standard output as it is produced. The command line is split into words the
// way a POSIX shell would, so quoting works as expected, but no shell is
// involved. The command's standard error is passed through to the program's
// own. If the command cannot be started, or exits with a non-zero status, the
// pipe's error status will be set; in the second case only once all of its
// output has been read.
func Exec(cmdLine string) *Pipe {
	p := NewPipe().WithName(cmdLine)
	args, err := shell.Fields(cmdLine, nil)
	if err != nil {
		return p.WithError(fmt.Errorf("parsing command line %q: %w", cmdLine, err))
	}
	if len(args) == 0 {
		return p.WithError(errors.New("empty command line"))
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stderr = os.Stderr
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	if err := cmd.Start(); err != nil {
		return p.WithError(err)
	}
	go func() {
		pw.CloseWithError(cmd.Wait())
	}()
	return p.WithReader(pr)
}

// File returns a *Pipe associated with the specified file. This is useful for
// starting pipelines. Files compressed with gzip or zstd are recognised by
// their contents, whatever their name, and decompressed as they are read. If
// there is an error opening the file, the pipe's error status will be set.
func File(name string) *Pipe {
	p := NewPipe().WithName(name)
	f, err := os.Open(name)
	if err != nil {
		return p.WithError(err)
	}
	r, err := decompress(f)
	if err != nil {
		f.Close()
		return p.WithError(fmt.Errorf("%s: %w", name, err))
	}
	p.Reader = NewReadAutoCloser(r, f)
	return p
}

// Stdin returns a pipe which reads from the program's standard input.
func Stdin() *Pipe {
	return NewPipe().WithName("-").WithReader(os.Stdin)
}
