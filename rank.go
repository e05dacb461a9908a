package weblog

import (
	"sort"
)

// DefaultTop is the number of items a ranking reports unless told otherwise.
const DefaultTop = 3

// Rank is one entry in a ranking: a key (an address, a route, or some other
// field value) and the number of times it occurred. Rank numbers start at 1.
type Rank struct {
	Rank  int    `json:"rank" yaml:"rank"`
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// UniqueCount returns the number of distinct originating addresses.
func (s *Snapshot) UniqueCount() int {
	return s.Size()
}

// TopActive returns the n addresses with the most records, most active first.
// Addresses with the same number of records are ordered alphabetically. If
// there are fewer than n addresses, all of them are returned.
func (s *Snapshot) TopActive(n int) []Rank {
	counts := make(map[string]int, s.Size())
	for ip, records := range s.Entries() {
		counts[ip] = len(records)
	}
	return top(counts, n)
}

// TopRoutes returns the n most requested routes, most frequent first, across
// every record. Routes with the same count are ordered alphabetically.
// Records without a route are not counted. If there are fewer than n distinct
// routes, all of them are returned.
func (s *Snapshot) TopRoutes(n int) []Rank {
	return s.TopValues(n, "route")
}

// TopValues returns the n most frequent values of the named Record field (see
// FieldNames) across every record, most frequent first. Ties, empty values and
// short results are treated as for TopRoutes. An unknown field name produces
// an empty ranking.
func (s *Snapshot) TopValues(n int, field string) []Rank {
	counts := map[string]int{}
	for _, records := range s.Entries() {
		for _, r := range records {
			if v, ok := r.Field(field); ok {
				counts[v]++
			}
		}
	}
	return top(counts, n)
}

// top ranks the keys of counts by count, descending, then by key, and returns
// the first n.
func top(counts map[string]int, n int) []Rank {
	if n <= 0 {
		return []Rank{}
	}
	ranks := make([]Rank, 0, len(counts))
	for key, count := range counts {
		ranks = append(ranks, Rank{Key: key, Count: count})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Count == ranks[j].Count {
			return ranks[i].Key < ranks[j].Key
		}
		return ranks[i].Count > ranks[j].Count
	})
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	for i := range ranks {
		ranks[i].Rank = i + 1
	}
	return ranks
}
