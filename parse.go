package weblog

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Missing is the placeholder an access log writes in place of a field with no
// value.
const Missing = "-"

// TimeLayout is the layout of a Record's Timestamp, as understood by
// time.Parse.
const TimeLayout = "02/Jan/2006:15:04:05 -0700"

var (
	// ErrNoMatch is returned by ParseLine for a line that isn't in the
	// access log format.
	ErrNoMatch = errors.New("line does not match access log format")

	// ErrMissingField is returned by ParseLine for a line that matches the
	// format but still lacks a value the format requires.
	ErrMissingField = errors.New("matched line has no value for required field")
)

// logPattern matches a line in Common or Combined Log Format. The request
// line may have fewer than three words, and the referer and user agent may be
// missing altogether.
var logPattern = regexp.MustCompile(`^(\S+) (\S+) (\S+) \[([\w:/]+\s[+\-]\d{4})\] "(\S+)\s?(\S+)?\s?(\S+)?" (\d{3}|-) (\d+|-)\s?"?([^"]*)"?\s?"?([^"]*)?"?`)

// Record is one parsed access log entry. Fields the log left out, or filled
// with the Missing placeholder, are empty; Raw keeps the text as it was.
type Record struct {
	Raw            string
	IP             string
	ClientIdentity string
	UserName       string
	Timestamp      string
	Method         string
	Route          string
	Protocol       string
	StatusCode     string
	ByteSize       string
	Referer        string
	UserAgent      string
}

// ParseLine parses a single access log line, with or without its line
// terminator. It returns ErrNoMatch if the line isn't in the expected format,
// and ErrMissingField in the unlikely case that it is but the originating
// address is still empty. ParseLine depends only on its input: the same line
// always produces the same Record.
func ParseLine(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	m := logPattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, ErrNoMatch
	}
	r := Record{
		Raw:            m[0],
		IP:             m[1],
		ClientIdentity: value(m[2]),
		UserName:       value(m[3]),
		Timestamp:      m[4],
		Method:         value(m[5]),
		Route:          value(m[6]),
		Protocol:       value(m[7]),
		StatusCode:     value(m[8]),
		ByteSize:       value(m[9]),
		Referer:        value(m[10]),
		UserAgent:      value(m[11]),
	}
	if r.IP == "" || r.Timestamp == "" {
		return Record{}, fmt.Errorf("%w: %q", ErrMissingField, line)
	}
	return r, nil
}

func value(s string) string {
	if s == Missing {
		return ""
	}
	return s
}

// Time parses the record's timestamp.
func (r Record) Time() (time.Time, error) {
	return time.Parse(TimeLayout, r.Timestamp)
}

// Status returns the record's HTTP status code, and whether it had one.
func (r Record) Status() (int, bool) {
	n, err := strconv.Atoi(r.StatusCode)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Bytes returns the size of the response in bytes, and whether the log
// recorded it.
func (r Record) Bytes() (int64, bool) {
	n, err := strconv.ParseInt(r.ByteSize, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FieldNames lists the names accepted by Record.Field, in log line order.
var FieldNames = []string{
	"ip",
	"client_identity",
	"user_name",
	"timestamp",
	"method",
	"route",
	"protocol",
	"status",
	"bytes",
	"referer",
	"user_agent",
}

// Field returns the value of the named field (one of FieldNames), and false if
// the field is empty or the name is not known.
func (r Record) Field(name string) (string, bool) {
	var v string
	switch name {
	case "ip":
		v = r.IP
	case "client_identity":
		v = r.ClientIdentity
	case "user_name":
		v = r.UserName
	case "timestamp":
		v = r.Timestamp
	case "method":
		v = r.Method
	case "route":
		v = r.Route
	case "protocol":
		v = r.Protocol
	case "status":
		v = r.StatusCode
	case "bytes":
		v = r.ByteSize
	case "referer":
		v = r.Referer
	case "user_agent":
		v = r.UserAgent
	}
	return v, v != ""
}

// IsField reports whether name is one of FieldNames.
func IsField(name string) bool {
	return slices.Contains(FieldNames, name)
}

// Map returns the record as a map from field name to value, with nil for
// empty fields, plus the raw text under "raw". Numeric status codes and sizes
// are numbers. The map is suitable for encoding as JSON or for a Query.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(FieldNames)+1)
	m["raw"] = r.Raw
	for _, name := range FieldNames {
		v, ok := r.Field(name)
		if !ok {
			m[name] = nil
			continue
		}
		m[name] = v
	}
	if n, ok := r.Status(); ok {
		m["status"] = n
	}
	if n, ok := r.Bytes(); ok {
		m["bytes"] = int(n)
	}
	return m
}
