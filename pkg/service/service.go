// Package service orchestrates repository analysis: it normalizes the
// incoming reference, consults the cache, runs the aggregation pipeline on
// a miss or forced refresh, and stores the result.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/repolens/repolens/pkg/analyzer"
	"github.com/repolens/repolens/pkg/observability"
	"github.com/repolens/repolens/pkg/reporef"
	"github.com/repolens/repolens/pkg/store"
)

// Aggregator is the analysis pipeline the service drives. It is satisfied
// by *analyzer.Aggregator.
type Aggregator interface {
	Aggregate(ctx context.Context, owner, repo string) (*analyzer.CompositeRecord, error)
}

// Result is one analysis response: the record plus cache provenance.
type Result struct {
	Key         string                    `json:"key"`
	Record      *analyzer.CompositeRecord `json:"record"`
	Cached      bool                      `json:"cached"`
	CacheAge    time.Duration             `json:"cache_age"`
	AccessCount int64                     `json:"access_count"`
}

// Service owns the cache store and the aggregator behind it. Construct one
// per process and share it by reference.
type Service struct {
	agg    Aggregator
	store  *store.Store
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service around an aggregator and a cache store.
func New(agg Aggregator, st *store.Store, opts ...Option) *Service {
	s := &Service{
		agg:    agg,
		store:  st,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze resolves a raw repository reference to an analysis record. The
// cache is consulted first unless refresh forces a fresh aggregation; a
// cache hit increments the entry's access counter. Normalization failures
// and metadata fetch failures propagate unchanged.
func (s *Service) Analyze(ctx context.Context, raw string, refresh bool) (*Result, error) {
	key, err := reporef.Normalize(raw)
	if err != nil {
		return nil, err
	}

	if !refresh {
		// RecordAccess doubles as the hit check so the expiry test and the
		// counter bump happen under one lock. A Lookup followed by a second
		// call could see the entry expire in between.
		if entry, ok := s.store.RecordAccess(key); ok {
			observability.Cache().OnHit(ctx, key)
			s.logger.Debug("cache hit", "key", key, "accesses", entry.AccessCount)
			return s.result(entry, true), nil
		}
		observability.Cache().OnMiss(ctx, key)
	}

	owner, repo, _ := strings.Cut(key, "/")
	rec, err := s.agg.Aggregate(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	entry := s.store.Upsert(key, rec)
	observability.Cache().OnSet(ctx, key)
	s.logger.Info("analyzed repository", "key", key, "score", rec.Analysis.QualityScore)
	return s.result(entry, false), nil
}

// CacheEntry returns the cache entry for a raw reference without touching
// its access counter. The bool reports whether a valid entry exists.
func (s *Service) CacheEntry(raw string) (store.Entry, bool, error) {
	key, err := reporef.Normalize(raw)
	if err != nil {
		return store.Entry{}, false, err
	}
	entry, ok := s.store.Lookup(key)
	return entry, ok, nil
}

// CacheStats reports aggregate cache counters.
func (s *Service) CacheStats() store.Stats { return s.store.Stats() }

// CacheSearch runs a ranked, paginated search over valid cache entries.
func (s *Service) CacheSearch(query string, page, pageSize int) store.Page {
	return s.store.Search(query, page, pageSize)
}

// CacheRecent lists valid cache entries newest first, paginated.
func (s *Service) CacheRecent(page, pageSize int) store.Page {
	return s.store.Recent(page, pageSize)
}

// CacheTop returns the n most-accessed valid entries.
func (s *Service) CacheTop(n int) []store.Entry { return s.store.TopAccessed(n) }

// CacheSweep removes expired entries and returns how many were deleted.
func (s *Service) CacheSweep(ctx context.Context) int {
	removed := s.store.Sweep()
	if removed > 0 {
		observability.Cache().OnEvict(ctx, removed)
	}
	s.logger.Debug("cache sweep", "removed", removed)
	return removed
}

// CacheClear empties the store and returns how many entries were deleted.
func (s *Service) CacheClear(ctx context.Context) int {
	removed := s.store.Clear()
	if removed > 0 {
		observability.Cache().OnEvict(ctx, removed)
	}
	s.logger.Info("cache cleared", "removed", removed)
	return removed
}

// TTL exposes the store's entry lifetime.
func (s *Service) TTL() time.Duration { return s.store.TTL() }

func (s *Service) result(entry store.Entry, cached bool) *Result {
	return &Result{
		Key:         entry.Key,
		Record:      entry.Record,
		Cached:      cached,
		CacheAge:    entry.Age(s.now()),
		AccessCount: entry.AccessCount,
	}
}
