package weblog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Generator produces random access log lines in Combined Log Format, for
// trying out and testing the analysis. Lines draw their addresses and routes
// from fixed pools, weighted so that some occur much more often than others,
// which makes the rankings interesting. A Generator is not safe for concurrent
// use.
type Generator struct {
	faker     *gofakeit.Faker
	addresses []string
	routes    []string
	malformed float64
	now       time.Time
}

// NewGenerator returns a Generator seeded with seed, drawing from the given
// numbers of distinct addresses and routes (at least one of each). The same
// seed and sizes always produce the same lines.
func NewGenerator(seed int64, addresses, routes int) *Generator {
	f := gofakeit.New(seed)
	g := &Generator{
		faker: f,
		now:   time.Date(2000, time.October, 10, 13, 55, 36, 0, time.UTC),
	}
	for i := 0; i < max(addresses, 1); i++ {
		g.addresses = append(g.addresses, f.IPv4Address())
	}
	for i := 0; i < max(routes, 1); i++ {
		route := "/" + slug(f.Word())
		if f.Bool() {
			route += "/" + slug(f.Word())
		}
		g.routes = append(g.routes, route)
	}
	return g
}

// WithMalformed sets the fraction, between 0 and 1, of lines that are
// deliberately not in the access log format.
func (g *Generator) WithMalformed(ratio float64) *Generator {
	g.malformed = min(max(ratio, 0), 1)
	return g
}

// Line returns the next line, without a line terminator, and whether it is in
// the access log format.
func (g *Generator) Line() (string, bool) {
	f := g.faker
	g.now = g.now.Add(time.Duration(f.Number(0, 5)) * time.Second)
	ip := pick(f, g.addresses)
	ts := g.now.Format(TimeLayout)
	route := pick(f, g.routes)
	if g.malformed > 0 && f.Float64() < g.malformed {
		switch f.Number(0, 2) {
		case 0:
			// unterminated request
			return fmt.Sprintf(`%s - - [%s] "%s %s HTTP/1.1 %d %d`,
				ip, ts, f.HTTPMethod(), route, f.HTTPStatusCode(), f.Number(0, 50000)), false
		case 1:
			return ip, false
		default:
			return f.Sentence(6), false
		}
	}
	user := Missing
	if name := slug(f.Username()); name != "" && f.Number(0, 9) == 0 {
		user = name
	}
	referer := Missing
	if f.Bool() {
		referer = f.URL()
	}
	return fmt.Sprintf(`%s - %s [%s] "%s %s %s" %d %d "%s" "%s"`,
		ip, user, ts,
		f.HTTPMethod(), route, f.RandomString([]string{"HTTP/1.0", "HTTP/1.1", "HTTP/2.0"}),
		f.HTTPStatusCode(), f.Number(0, 50000),
		referer, strings.ReplaceAll(f.UserAgent(), `"`, ""),
	), true
}

// pick chooses an item from items, favouring those near the front.
func pick(f *gofakeit.Faker, items []string) string {
	u := f.Float64()
	return items[int(u*u*float64(len(items)))%len(items)]
}

// slug makes s safe to use as a single token in a log line.
func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// Generate returns a pipe containing n lines from g, each terminated by a
// newline. Lines are produced as the pipe is read.
func Generate(g *Generator, n int) *Pipe {
	return NewPipe().WithName("generated").WithReader(&generatorReader{g: g, remaining: n})
}

type generatorReader struct {
	g         *Generator
	remaining int
	buf       []byte
}

func (r *generatorReader) Read(b []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.remaining <= 0 {
			return 0, io.EOF
		}
		line, _ := r.g.Line()
		r.buf = append(r.buf, line...)
		r.buf = append(r.buf, '\n')
		r.remaining--
	}
	n := copy(b, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
