package weblog

import (
	"errors"
	"iter"
)

// ErrSealed is returned when a record is added to a Store that has already
// been sealed.
var ErrSealed = errors.New("store is sealed")

// Store accumulates Records grouped by originating address. Records for the
// same address are kept in the order they were added, and addresses are
// remembered in the order they were first seen. Nothing is ever removed.
//
// A Store has a single writer. Once every record has been added, Seal it to
// get a read-only Snapshot, which is what the aggregation methods work on.
type Store struct {
	records map[string][]Record
	keys    []string
	total   int
	sealed  bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{records: map[string][]Record{}}
}

// Record adds r to the sequence of records for r.IP, creating the sequence if
// this is the first record from that address. It returns ErrSealed if the
// store has been sealed.
func (s *Store) Record(r Record) error {
	if s.sealed {
		return ErrSealed
	}
	if _, ok := s.records[r.IP]; !ok {
		s.keys = append(s.keys, r.IP)
	}
	s.records[r.IP] = append(s.records[r.IP], r)
	s.total++
	return nil
}

// Size returns the number of distinct addresses in the store.
func (s *Store) Size() int {
	return len(s.keys)
}

// Len returns the total number of records in the store.
func (s *Store) Len() int {
	return s.total
}

// Entries returns a sequence of each address in the store, in the order it was
// first seen, paired with its records, in the order they were added. The
// record slices must not be modified.
func (s *Store) Entries() iter.Seq2[string, []Record] {
	return func(yield func(string, []Record) bool) {
		for _, k := range s.keys {
			if !yield(k, s.records[k]) {
				return
			}
		}
	}
}

// Seal stops the store accepting any more records, and returns a Snapshot of
// its contents. Sealing a store more than once returns equivalent snapshots.
func (s *Store) Seal() *Snapshot {
	s.sealed = true
	return &Snapshot{store: s}
}

// Snapshot is a read-only view of a sealed Store.
type Snapshot struct {
	store *Store
	stats Stats
}

// Size returns the number of distinct addresses.
func (s *Snapshot) Size() int {
	return s.store.Size()
}

// Len returns the total number of records.
func (s *Snapshot) Len() int {
	return s.store.Len()
}

// Entries returns a sequence of addresses and their records. See
// Store.Entries.
func (s *Snapshot) Entries() iter.Seq2[string, []Record] {
	return s.store.Entries()
}

// Records returns the records from the given address, in the order they were
// added, or nil if there are none. The slice must not be modified.
func (s *Snapshot) Records(ip string) []Record {
	return s.store.records[ip]
}

// Stats returns the counts gathered while the snapshot's records were
// ingested. For a snapshot made by sealing a Store directly, only Parsed is
// set.
func (s *Snapshot) Stats() Stats {
	if s.stats == (Stats{}) {
		return Stats{Parsed: s.Len()}
	}
	return s.stats
}

// Stats summarises an ingestion run.
type Stats struct {
	// Lines is the number of lines read.
	Lines int `json:"lines" yaml:"lines"`
	// Parsed is the number of lines that produced a record.
	Parsed int `json:"parsed" yaml:"parsed"`
	// Rejected is the number of lines that did not.
	Rejected int `json:"rejected" yaml:"rejected"`
	// Filtered is the number of records excluded by a query.
	Filtered int `json:"filtered" yaml:"filtered"`
}
