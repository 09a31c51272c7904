package filter

import (
	"event-catalog/internal/domain"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Key is the memoization equality key: catalog version, the criteria value and
// now's calendar day. Two calls with equal keys produce equal results.
func Key(version string, criteria domain.FilterCriteria, now time.Time) string {
	var b strings.Builder
	b.WriteString(version)
	b.WriteByte('|')
	b.WriteString(strconv.Quote(criteria.SearchTerm))
	b.WriteByte('|')
	b.WriteString(strconv.Quote(criteria.Category))
	b.WriteByte('|')
	b.WriteString(strconv.Quote(string(criteria.DateBucket)))
	b.WriteByte('|')
	b.WriteString(now.Format("2006-01-02"))
	b.WriteByte('|')
	b.WriteString(now.Location().String())
	return b.String()
}

// Memo caches Filter results. Entries are evicted oldest-inserted first once
// size is reached. Cached slices are shared between callers and must not be
// modified.
type Memo struct {
	mu      sync.Mutex
	size    int
	entries map[string][]domain.Event
	order   []string
}

func NewMemo(size int) *Memo {
	if size <= 0 {
		size = 128
	}
	return &Memo{
		size:    size,
		entries: make(map[string][]domain.Event, size),
	}
}

// Filter returns the cached result for (version, criteria, day) or computes it.
// The bool reports a cache hit.
func (m *Memo) Filter(version string, catalog []domain.Event, criteria domain.FilterCriteria, now time.Time) ([]domain.Event, bool) {
	key := Key(version, criteria, now)

	m.mu.Lock()
	if res, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return res, true
	}
	m.mu.Unlock()

	res := Filter(catalog, criteria, now)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		if len(m.order) >= m.size {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.entries, oldest)
		}
		m.order = append(m.order, key)
	}
	m.entries[key] = res
	return res, false
}

// Len returns the number of cached results.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Purge drops every cached result.
func (m *Memo) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]domain.Event, m.size)
	m.order = nil
}
