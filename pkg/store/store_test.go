package store

import (
	"testing"
	"time"

	"github.com/repolens/repolens/pkg/analyzer"
	"github.com/repolens/repolens/pkg/github"
)

// fakeClock advances only when told to, making TTL behavior deterministic.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time            { return c.t }
func (c *fakeClock) advance(d time.Duration)   { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	return New(WithTTL(ttl), WithClock(clock.now)), clock
}

func record(fullName string, stars int) *analyzer.CompositeRecord {
	return &analyzer.CompositeRecord{
		Metadata: github.Metadata{
			FullName:    fullName,
			Description: "demo repository",
			Stars:       stars,
			Topics:      []string{"cli", "golang"},
		},
		Languages: analyzer.Languages{Primary: "Go"},
	}
}

func TestLookupAfterUpsert(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	s.Upsert("octo/app", record("octo/app", 10))

	e, ok := s.Lookup("octo/app")
	if !ok {
		t.Fatal("Lookup() = not found immediately after Upsert")
	}
	if e.Record.Metadata.FullName != "octo/app" {
		t.Errorf("record = %q", e.Record.Metadata.FullName)
	}
	if e.AccessCount != 1 {
		t.Errorf("AccessCount = %d, want 1 on insert", e.AccessCount)
	}
}

func TestLookupExpiredEvictsLazily(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	s.Upsert("octo/app", record("octo/app", 10))

	clock.advance(time.Hour + time.Second)

	if _, ok := s.Lookup("octo/app"); ok {
		t.Error("Lookup() found an expired entry")
	}
	if st := s.Stats(); st.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d, want 0 after lazy eviction", st.TotalEntries)
	}
}

func TestUpsertReplacePreservesCreation(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	first := s.Upsert("octo/app", record("octo/app", 10))

	clock.advance(10 * time.Minute)
	second := s.Upsert("octo/app", record("octo/app", 99))

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on replace: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.ExpiresAt.After(first.ExpiresAt) {
		t.Errorf("ExpiresAt not refreshed: %v -> %v", first.ExpiresAt, second.ExpiresAt)
	}
	if second.AccessCount != 2 {
		t.Errorf("AccessCount = %d, want 2 after replace", second.AccessCount)
	}
	if second.Record.Metadata.Stars != 99 {
		t.Errorf("record not replaced: stars = %d", second.Record.Metadata.Stars)
	}
	if st := s.Stats(); st.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1 (no duplicate keys)", st.TotalEntries)
	}
}

func TestUpsertAfterExpiryStartsFresh(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	s.Upsert("octo/app", record("octo/app", 10))
	clock.advance(2 * time.Hour)

	e := s.Upsert("octo/app", record("octo/app", 10))
	if e.AccessCount != 1 {
		t.Errorf("AccessCount = %d, want 1 for a fresh entry after expiry", e.AccessCount)
	}
	if !e.CreatedAt.Equal(clock.now()) {
		t.Errorf("CreatedAt = %v, want reset to now", e.CreatedAt)
	}
}

func TestRecordAccess(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	s.Upsert("octo/app", record("octo/app", 10))

	e, ok := s.RecordAccess("octo/app")
	if !ok {
		t.Fatal("RecordAccess() = not found on a present key")
	}
	if e.AccessCount != 2 {
		t.Errorf("AccessCount = %d, want 2", e.AccessCount)
	}

	if _, ok := s.RecordAccess("missing/key"); ok {
		t.Error("RecordAccess() succeeded on an absent key")
	}

	clock.advance(2 * time.Hour)
	if _, ok := s.RecordAccess("octo/app"); ok {
		t.Error("RecordAccess() succeeded on an expired key")
	}
	if st := s.Stats(); st.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d, want 0 after lazy eviction", st.TotalEntries)
	}
}

func TestStats(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	s.Upsert("a/a", record("a/a", 1))
	clock.advance(45 * time.Minute)
	s.Upsert("b/b", record("b/b", 2))
	s.RecordAccess("b/b")
	clock.advance(30 * time.Minute) // a/a now expired, b/b still valid

	st := s.Stats()
	if st.TotalEntries != 2 || st.ValidEntries != 1 || st.ExpiredEntries != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", st.TotalEntries, st.ValidEntries, st.ExpiredEntries)
	}
	if st.TotalAccesses != 3 {
		t.Errorf("TotalAccesses = %d, want 3", st.TotalAccesses)
	}
	if st.MeanAccesses != 1.5 {
		t.Errorf("MeanAccesses = %v, want 1.5", st.MeanAccesses)
	}
	if !st.OldestCreated.Before(st.NewestCreated) {
		t.Errorf("Oldest %v not before Newest %v", st.OldestCreated, st.NewestCreated)
	}
}

func TestTopAccessed(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	s.Upsert("low/low", record("low/low", 1))
	s.Upsert("high/high", record("high/high", 1))
	s.RecordAccess("high/high")
	s.RecordAccess("high/high")

	top := s.TopAccessed(1)
	if len(top) != 1 || top[0].Key != "high/high" {
		t.Errorf("TopAccessed(1) = %v", keys(top))
	}

	all := s.TopAccessed(10)
	if len(all) != 2 {
		t.Errorf("TopAccessed(10) len = %d, want 2", len(all))
	}
}

func TestSearchRanking(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	s.Upsert("octo/newer", record("octo/newer", 500))
	s.Upsert("octo/older", record("octo/older", 100))

	// octo/older gets more accesses despite later insertion and fewer stars.
	s.RecordAccess("octo/older")
	s.RecordAccess("octo/older")

	page := s.Search("octo", 1, 10)
	if page.Total != 2 {
		t.Fatalf("Total = %d, want 2", page.Total)
	}
	if page.Entries[0].Key != "octo/older" {
		t.Errorf("first = %q, want the higher-access entry regardless of creation order", page.Entries[0].Key)
	}
}

func TestSearchTieBrokenByStars(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	s.Upsert("a/small", record("a/small", 5))
	s.Upsert("b/big", record("b/big", 500))

	page := s.Search("", 1, 10)
	if page.Entries[0].Key != "b/big" {
		t.Errorf("first = %q, want the starrier entry on an access tie", page.Entries[0].Key)
	}
}

func TestSearchFields(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	s.Upsert("octo/app", record("octo/app", 1))

	for _, q := range []string{"OCTO", "demo", "go", "golang"} {
		if page := s.Search(q, 1, 10); page.Total != 1 {
			t.Errorf("Search(%q).Total = %d, want 1", q, page.Total)
		}
	}
	if page := s.Search("nomatch", 1, 10); page.Total != 0 {
		t.Errorf("Search(nomatch).Total = %d, want 0", page.Total)
	}
}

func TestSearchExcludesExpired(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	s.Upsert("octo/app", record("octo/app", 1))
	clock.advance(2 * time.Hour)

	if page := s.Search("octo", 1, 10); page.Total != 0 {
		t.Errorf("Search found expired entries: %v", keys(page.Entries))
	}
}

func TestRecentOrderAndPagination(t *testing.T) {
	s, clock := newTestStore(24 * time.Hour)
	for _, key := range []string{"a/a", "b/b", "c/c"} {
		s.Upsert(key, record(key, 1))
		clock.advance(time.Minute)
	}

	page := s.Recent(1, 2)
	if page.Total != 3 || len(page.Entries) != 2 {
		t.Fatalf("page = %d entries of %d total, want 2 of 3", len(page.Entries), page.Total)
	}
	if page.Entries[0].Key != "c/c" || page.Entries[1].Key != "b/b" {
		t.Errorf("order = %v, want newest first", keys(page.Entries))
	}

	last := s.Recent(2, 2)
	if len(last.Entries) != 1 || last.Entries[0].Key != "a/a" {
		t.Errorf("second page = %v, want [a/a]", keys(last.Entries))
	}

	if empty := s.Recent(9, 2); len(empty.Entries) != 0 {
		t.Errorf("out-of-range page returned %v", keys(empty.Entries))
	}
}

func TestSweep(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	s.Upsert("old/old", record("old/old", 1))
	clock.advance(45 * time.Minute)
	s.Upsert("new/new", record("new/new", 1))
	clock.advance(30 * time.Minute)

	if removed := s.Sweep(); removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
	if st := s.Stats(); st.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d after sweep, want 1", st.TotalEntries)
	}
	if _, ok := s.Lookup("new/new"); !ok {
		t.Error("sweep removed a valid entry")
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	s.Upsert("a/a", record("a/a", 1))
	s.Upsert("b/b", record("b/b", 1))

	if removed := s.Clear(); removed != 2 {
		t.Errorf("Clear() = %d, want 2", removed)
	}
	if st := s.Stats(); st.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d after clear, want 0", st.TotalEntries)
	}
}

func keys(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}
