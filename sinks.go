package weblog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Options controls the rankings produced by Analyze.
type Options struct {
	// TopActive is the number of most active addresses to report.
	TopActive int `json:"top_active" yaml:"top_active"`
	// TopRoutes is the number of most requested routes to report.
	TopRoutes int `json:"top_routes" yaml:"top_routes"`
	// By optionally names a further Record field (see FieldNames) to rank
	// the values of, TopBy at a time.
	By    string `json:"by,omitempty" yaml:"by,omitempty"`
	TopBy int    `json:"top_by,omitempty" yaml:"top_by,omitempty"`
}

// DefaultOptions returns Options reporting the top DefaultTop addresses and
// routes.
func DefaultOptions() Options {
	return Options{
		TopActive: DefaultTop,
		TopRoutes: DefaultTop,
		TopBy:     DefaultTop,
	}
}

// Ingest reads the pipe line by line, parses each line as an access log entry,
// and adds the resulting records to a new Store. Lines that can't be parsed
// are logged as warnings and skipped; they don't stop ingestion. When the
// input is exhausted, the store is sealed and its Snapshot returned.
//
// If the pipe has error status, or there is an error reading it, Ingest
// returns that error and no snapshot, and the pipe's error status is set.
func (p *Pipe) Ingest() (*Snapshot, error) {
	if p.Error() != nil {
		return nil, p.Error()
	}
	log := p.log()
	var query *Query
	if p != nil {
		query = p.query
	}
	store := NewStore()
	var stats Stats
	for line := range p.Lines() {
		stats.Lines++
		r, err := ParseLine(line)
		if err != nil {
			stats.Rejected++
			msg := "skipping line: no match"
			if errors.Is(err, ErrMissingField) {
				msg = "skipping line: missing field"
			}
			log.Warn(msg, "line", stats.Lines, "text", strings.TrimRight(line, "\r\n"))
			continue
		}
		stats.Parsed++
		if query != nil {
			ok, err := query.Match(r)
			if err != nil {
				log.Warn("skipping record: query failed", "line", stats.Lines, "error", err)
			}
			if !ok {
				stats.Filtered++
				continue
			}
		}
		if err := store.Record(r); err != nil {
			p.SetError(err)
			break
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	snap := store.Seal()
	snap.stats = stats
	log.Debug("ingested", "lines", stats.Lines, "parsed", stats.Parsed, "rejected", stats.Rejected, "filtered", stats.Filtered, "addresses", snap.Size())
	return snap, nil
}

// Analyze ingests the pipe, as Ingest does, and then computes, in order, the
// number of unique addresses, the most active addresses, and the most
// requested routes, returning them as a Report. Each call is a separate run
// with its own store and run ID; the run ID is attached to every diagnostic
// the run logs.
func (p *Pipe) Analyze(opts Options) (*Report, error) {
	if p.Error() != nil {
		return nil, p.Error()
	}
	if opts.By != "" && !IsField(opts.By) {
		return nil, fmt.Errorf("unknown field %q", opts.By)
	}
	id := uuid.NewString()
	if p != nil {
		p.logger = p.log().With("run_id", id)
	}
	snap, err := p.Ingest()
	if err != nil {
		return nil, err
	}
	rep := &Report{
		RunID:    id,
		Source:   p.Name(),
		Encoding: p.Encoding(),
		Options:  opts,
		Stats:    snap.Stats(),
	}
	rep.UniqueAddresses = snap.UniqueCount()
	rep.TopActive = snap.TopActive(opts.TopActive)
	rep.TopRoutes = snap.TopRoutes(opts.TopRoutes)
	if opts.By != "" {
		rep.TopBy = snap.TopValues(opts.TopBy, opts.By)
	}
	return rep, nil
}

func (p *Pipe) log() *slog.Logger {
	if p == nil || p.logger == nil {
		return slog.Default()
	}
	return p.logger
}
