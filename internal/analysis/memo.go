package analysis

import (
	"slices"
	"sync"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/google/uuid"
)

type memoKey struct {
	fingerprint string
	limit       int
}

// Memo caches reports by dataset content and comparison limit. Analysis is
// a pure function of both, so a hit is always valid. Safe for concurrent use.
type Memo struct {
	mu      sync.Mutex
	entries map[memoKey]*Report
	hits    int
}

// NewMemo returns an empty cache.
func NewMemo() *Memo {
	return &Memo{entries: map[memoKey]*Report{}}
}

// Analyze returns a copy of the cached report for ds when present, with a
// fresh ID and renamed to name, and reports whether it was a hit.
func (m *Memo) Analyze(name string, ds *dataset.Dataset, opt Options) (*Report, bool) {
	key := memoKey{fingerprint: ds.Fingerprint(), limit: opt.limit()}
	m.mu.Lock()
	if rep, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()
		return rep.clone(name), true
	}
	m.mu.Unlock()

	rep := Analyze(name, ds, opt)
	m.mu.Lock()
	m.entries[key] = rep
	m.mu.Unlock()
	return rep, false
}

// clone copies rep under a new identity; slices are not shared with the cached entry.
func (r *Report) clone(name string) *Report {
	cp := *r
	cp.ID = uuid.NewString()
	cp.Name = name
	cp.Columns = slices.Clone(r.Columns)
	cp.Comparisons = slices.Clone(r.Comparisons)
	cp.Charts = slices.Clone(r.Charts)
	for i := range cp.Charts {
		cp.Charts[i].Points = slices.Clone(cp.Charts[i].Points)
	}
	cp.Insights = slices.Clone(r.Insights)
	cp.GroupInsights = slices.Clone(r.GroupInsights)
	cp.Warnings = slices.Clone(r.Warnings)
	return &cp
}

// Hits returns the number of cache hits so far.
func (m *Memo) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

// Len returns the number of cached reports.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
