package dataset

import (
	"sort"
	"sync"
	"sync/atomic"

	"musescore/internal/scoring"
	"musescore/internal/types"
)

// Snapshot is an immutable set of active area records. Column statistics are
// computed on first use and shared by every reader of the snapshot.
type Snapshot struct {
	records []types.AreaRecord
	index   map[string]int
	report  Report

	statsOnce sync.Once
	stats     scoring.Stats
}

func newSnapshot(records []types.AreaRecord, report Report) *Snapshot {
	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.Zip] = i
	}
	return &Snapshot{records: records, index: index, report: report}
}

// NewSnapshot builds a snapshot from already validated records. Later
// duplicates of a zip are ignored.
func NewSnapshot(records []types.AreaRecord) *Snapshot {
	out := make([]types.AreaRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	dups := 0
	for _, r := range records {
		if _, ok := seen[r.Zip]; ok {
			dups++
			continue
		}
		seen[r.Zip] = struct{}{}
		out = append(out, r)
	}
	return newSnapshot(out, Report{Total: len(records), Active: len(out), Duplicates: dups})
}

// Records returns a copy of the active records in source order.
func (s *Snapshot) Records() []types.AreaRecord {
	out := make([]types.AreaRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len is the number of active records.
func (s *Snapshot) Len() int { return len(s.records) }

// Report describes how the snapshot was built.
func (s *Snapshot) Report() Report { return s.report }

// Lookup finds the record whose zip equals zip exactly.
func (s *Snapshot) Lookup(zip string) (types.AreaRecord, bool) {
	i, ok := s.index[zip]
	if !ok {
		return types.AreaRecord{}, false
	}
	return s.records[i], true
}

// Stats returns the min/max of every scoring column over this snapshot.
func (s *Snapshot) Stats() scoring.Stats {
	s.statsOnce.Do(func() {
		s.stats = scoring.ComputeStats(s.records)
	})
	out := make(scoring.Stats, len(s.stats))
	for k, v := range s.stats {
		out[k] = v
	}
	return out
}

// States returns the distinct non-empty state identifiers, sorted.
func (s *Snapshot) States() []string {
	set := make(map[string]struct{})
	for _, r := range s.records {
		if r.StateID != "" {
			set[r.StateID] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for st := range set {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

// Store publishes the current snapshot to concurrent readers. Replacing the
// snapshot also replaces its cached statistics.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore returns a store holding s.
func NewStore(s *Snapshot) *Store {
	st := &Store{}
	st.cur.Store(s)
	return st
}

// Current returns the snapshot in effect. It may be nil for an empty store.
func (st *Store) Current() *Snapshot {
	return st.cur.Load()
}

// Swap installs s and returns the previous snapshot.
func (st *Store) Swap(s *Snapshot) *Snapshot {
	return st.cur.Swap(s)
}
