package weblog

// CountLines counts lines in the specified file, which may be compressed, and
// returns the integer result, or an error.
func CountLines(name string) (int, error) {
	return File(name).CountLines()
}

// CountLines counts lines from the pipe's reader, and returns the integer
// result, or an error. A final line with no newline still counts. If there is
// an error reading the pipe, the pipe's error status is also set.
func (p *Pipe) CountLines() (int, error) {
	if p.Error() != nil {
		return 0, p.Error()
	}
	var lines int
	for range p.Lines() {
		lines++
	}
	if err := p.Error(); err != nil {
		return 0, err
	}
	p.Close()
	return lines, nil
}
