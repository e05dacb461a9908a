package weblog

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Query is a compiled jq expression used to decide which records to keep.
// The expression is run against a record's Map, so for example
//
//	.status >= 500
//	.route | startswith("/api/")
//	.method == "POST" and .user_agent != null
//
// select server errors, API calls, and POSTs with a user agent respectively.
type Query struct {
	src  string
	code *gojq.Code
}

// ParseQuery compiles the jq expression src.
func ParseQuery(src string) (*Query, error) {
	q, err := gojq.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing query %q: %w", src, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compiling query %q: %w", src, err)
	}
	return &Query{src: src, code: code}, nil
}

// String returns the query's source text.
func (q *Query) String() string {
	return q.src
}

// Match runs the query against r and reports whether its first result is
// truthy, that is, anything but false or null. A query producing no results
// does not match.
func (q *Query) Match(r Record) (bool, error) {
	iter := q.code.Run(r.Map())
	v, ok := iter.Next()
	if !ok {
		return false, nil
	}
	if err, ok := v.(error); ok {
		return false, fmt.Errorf("query %q: %w", q.src, err)
	}
	return v != nil && v != false, nil
}

// WithQuery arranges for only the records matching the jq expression src to be
// ingested from the pipe; see Query. If the expression is not valid, the
// pipe's error status is set.
func (p *Pipe) WithQuery(src string) *Pipe {
	if p == nil || p.Error() != nil {
		return p
	}
	q, err := ParseQuery(src)
	if err != nil {
		return p.WithError(err)
	}
	p.query = q
	return p
}
