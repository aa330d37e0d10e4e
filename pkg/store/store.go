package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/repolens/repolens/pkg/analyzer"
)

// DefaultTTL is how long an entry stays valid after a write.
const DefaultTTL = 24 * time.Hour

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 20

// Entry owns one analysis record plus its cache metadata.
type Entry struct {
	Key         string                    `json:"key"`
	Record      *analyzer.CompositeRecord `json:"record"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
	ExpiresAt   time.Time                 `json:"expires_at"`
	AccessCount int64                     `json:"access_count"`
	LastAccess  time.Time                 `json:"last_access"`

	seq int64
}

// expired is the single expiry predicate shared by every read path and by
// Sweep, so the two eviction mechanisms cannot diverge.
func (e *Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// Age returns how long ago the entry was created, relative to now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Stats aggregates counters across the whole store, expired entries
// included.
type Stats struct {
	TotalEntries   int       `json:"total_entries"`
	ValidEntries   int       `json:"valid_entries"`
	ExpiredEntries int       `json:"expired_entries"`
	TotalAccesses  int64     `json:"total_accesses"`
	MeanAccesses   float64   `json:"mean_accesses"`
	OldestCreated  time.Time `json:"oldest_created,omitzero"`
	NewestCreated  time.Time `json:"newest_created,omitzero"`
}

// Page is one page of entries plus the total match count before
// pagination.
type Page struct {
	Entries  []Entry `json:"entries"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// Store is an in-memory TTL cache of analysis records keyed by canonical
// repository key. All operations are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*Entry
	nextSeq int64
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: map[string]*Entry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured entry lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Lookup returns a copy of the entry for key if one exists and has not
// expired. An expired entry is deleted as a side effect and reported as
// absent.
func (s *Store) Lookup(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return Entry{}, false
	}
	return *e, true
}

// Upsert inserts or replaces the record under key and returns a copy of
// the resulting entry. A replace preserves the original creation time,
// refreshes the expiry, and increments the access counter; an insert
// starts the counter at 1. An expired entry under the same key is
// discarded rather than updated.
func (s *Store) Upsert(key string, rec *analyzer.CompositeRecord) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && !e.expired(now) {
		e.Record = rec
		e.UpdatedAt = now
		e.ExpiresAt = now.Add(s.ttl)
		e.AccessCount++
		e.LastAccess = now
		return *e
	}

	e := &Entry{
		Key:         key,
		Record:      rec,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
		AccessCount: 1,
		LastAccess:  now,
		seq:         s.nextSeq,
	}
	s.nextSeq++
	s.entries[key] = e
	return *e
}

// RecordAccess increments the access counter and last-access time of a
// present, non-expired entry and returns the updated copy. Absent keys are
// a no-op; expired entries are evicted, as in Lookup.
func (s *Store) RecordAccess(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return Entry{}, false
	}
	e.AccessCount++
	e.LastAccess = s.now()
	return *e, true
}

// Stats reports aggregate counters over every entry, expired ones
// included.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st := Stats{TotalEntries: len(s.entries)}
	for _, e := range s.entries {
		if e.expired(now) {
			st.ExpiredEntries++
		} else {
			st.ValidEntries++
		}
		st.TotalAccesses += e.AccessCount
		if st.OldestCreated.IsZero() || e.CreatedAt.Before(st.OldestCreated) {
			st.OldestCreated = e.CreatedAt
		}
		if e.CreatedAt.After(st.NewestCreated) {
			st.NewestCreated = e.CreatedAt
		}
	}
	if st.TotalEntries > 0 {
		st.MeanAccesses = float64(st.TotalAccesses) / float64(st.TotalEntries)
	}
	return st
}

// TopAccessed returns up to n valid entries ordered by access counter
// descending; ties keep insertion order.
func (s *Store) TopAccessed(n int) []Entry {
	entries := s.valid()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AccessCount != entries[j].AccessCount {
			return entries[i].AccessCount > entries[j].AccessCount
		}
		return entries[i].seq < entries[j].seq
	})
	if n >= 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Search filters valid entries by a case-insensitive substring match over
// full name, description, primary language, and topics, ranks matches by
// access counter descending with star count breaking ties, and paginates.
// An empty query matches everything.
func (s *Store) Search(query string, page, pageSize int) Page {
	q := strings.ToLower(strings.TrimSpace(query))

	var matches []Entry
	for _, e := range s.valid() {
		if q == "" || matchesQuery(e, q) {
			matches = append(matches, e)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].AccessCount != matches[j].AccessCount {
			return matches[i].AccessCount > matches[j].AccessCount
		}
		return matches[i].Record.Metadata.Stars > matches[j].Record.Metadata.Stars
	})

	return paginate(matches, page, pageSize)
}

// Recent returns valid entries ordered by creation time descending,
// paginated.
func (s *Store) Recent(page, pageSize int) Page {
	entries := s.valid()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return paginate(entries, page, pageSize)
}

// Sweep deletes every expired entry and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Clear deletes everything and returns how many entries were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.entries)
	s.entries = map[string]*Entry{}
	return removed
}

// valid snapshots all non-expired entries.
func (s *Store) valid() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.expired(now) {
			entries = append(entries, *e)
		}
	}
	return entries
}

func matchesQuery(e Entry, q string) bool {
	rec := e.Record
	if rec == nil {
		return false
	}
	if strings.Contains(strings.ToLower(rec.Metadata.FullName), q) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Metadata.Description), q) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Languages.Primary), q) {
		return true
	}
	for _, topic := range rec.Metadata.Topics {
		if strings.Contains(strings.ToLower(topic), q) {
			return true
		}
	}
	return false
}

func paginate(entries []Entry, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(entries)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Entries:  entries[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
