package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/repolens/repolens/pkg/github"
	"github.com/repolens/repolens/pkg/observability"
	"github.com/repolens/repolens/pkg/techstack"
)

// Fetcher is the fact-gathering surface the aggregator depends on.
// *github.Client satisfies it.
type Fetcher interface {
	FetchRepo(ctx context.Context, owner, repo string) (*github.Metadata, error)
	FetchReadme(ctx context.Context, owner, repo string) (*github.Readme, error)
	FetchLanguages(ctx context.Context, owner, repo string) (map[string]int64, error)
	ListContents(ctx context.Context, owner, repo string) ([]github.ContentItem, error)
	FetchFileText(ctx context.Context, owner, repo, path string) (string, error)
	CountCommits(ctx context.Context, owner, repo string) (int, error)
	CountContributors(ctx context.Context, owner, repo string) (int, error)
	CountReleases(ctx context.Context, owner, repo string) (int, error)
}

// Aggregator gathers all facts for a repository and derives its analysis.
type Aggregator struct {
	client Fetcher
	logger *log.Logger
	now    func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for best-effort fetch failures.
func WithLogger(logger *log.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// New creates an Aggregator backed by the given fetcher.
func New(client Fetcher, opts ...Option) *Aggregator {
	a := &Aggregator{
		client: client,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate fans out the five fact fetches concurrently and merges the
// results once all have settled. Repository metadata is mandatory: its
// failure fails the whole aggregation and the error is returned unchanged.
// The other four facts are best-effort and degrade to documented defaults:
// a nil README, an empty histogram with primary "Unknown", all-empty stack
// buckets, and all-zero activity counts.
func (a *Aggregator) Aggregate(ctx context.Context, owner, repo string) (*CompositeRecord, error) {
	key := fmt.Sprintf("%s/%s", owner, repo)
	start := a.now()
	observability.Analysis().OnAggregateStart(ctx, key)

	var (
		meta      *github.Metadata
		metaErr   error
		readme    *github.Readme
		langBytes map[string]int64
		stack     techstack.Stack
		activity  Activity
	)

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		metaErr = a.fetch(ctx, key, "metadata", func() error {
			m, err := a.client.FetchRepo(ctx, owner, repo)
			meta = m
			return err
		})
	}()

	go func() {
		defer wg.Done()
		err := a.fetch(ctx, key, "readme", func() error {
			r, err := a.client.FetchReadme(ctx, owner, repo)
			readme = r
			return err
		})
		if err != nil {
			readme = nil
		}
	}()

	go func() {
		defer wg.Done()
		err := a.fetch(ctx, key, "languages", func() error {
			l, err := a.client.FetchLanguages(ctx, owner, repo)
			langBytes = l
			return err
		})
		if err != nil {
			langBytes = nil
		}
	}()

	go func() {
		defer wg.Done()
		err := a.fetch(ctx, key, "techstack", func() error {
			s, err := a.detectStack(ctx, owner, repo)
			stack = s
			return err
		})
		if err != nil {
			stack = techstack.Stack{}
		}
	}()

	go func() {
		defer wg.Done()
		activity = a.fetchActivity(ctx, key, owner, repo)
	}()

	wg.Wait()

	if metaErr != nil {
		observability.Analysis().OnAggregateComplete(ctx, key, a.now().Sub(start), metaErr)
		return nil, metaErr
	}

	rec := &CompositeRecord{
		Metadata:    *meta,
		Readme:      readme,
		Languages:   deriveLanguages(langBytes),
		Stack:       stack,
		Activity:    activity,
		GeneratedAt: a.now(),
	}
	if readme != nil {
		rec.Features = ExtractFeatures(readme.Raw)
	} else {
		rec.Features = []string{}
	}
	rec.Analysis = Score(rec, a.now())

	observability.Analysis().OnAggregateComplete(ctx, key, a.now().Sub(start), nil)
	return rec, nil
}

// fetch runs one best-effort fact fetch, logging and reporting its outcome.
func (a *Aggregator) fetch(ctx context.Context, key, fact string, fn func() error) error {
	start := a.now()
	err := fn()
	observability.Analysis().OnFetchComplete(ctx, key, fact, a.now().Sub(start), err)
	if err != nil {
		a.logger.Debug("fact fetch failed", "repo", key, "fact", fact, "err", err)
	}
	return err
}

// detectStack lists top-level files, pulls the manifests present in the
// listing, and runs table-driven detection over both.
func (a *Aggregator) detectStack(ctx context.Context, owner, repo string) (techstack.Stack, error) {
	items, err := a.client.ListContents(ctx, owner, repo)
	if err != nil {
		return techstack.Stack{}, err
	}

	files := make([]string, 0, len(items))
	present := map[string]bool{}
	for _, item := range items {
		if item.Type == "file" {
			files = append(files, item.Name)
			present[item.Name] = true
		}
	}

	manifests := map[string]string{}
	for _, name := range techstack.ManifestFiles {
		if !present[name] {
			continue
		}
		content, err := a.client.FetchFileText(ctx, owner, repo, name)
		if err != nil {
			a.logger.Debug("manifest fetch failed", "repo", owner+"/"+repo, "manifest", name, "err", err)
			continue
		}
		manifests[name] = content
	}

	return techstack.Detect(files, manifests), nil
}

// fetchActivity gathers the three activity counters. Each is independent:
// a failed counter stays at zero without affecting the others.
func (a *Aggregator) fetchActivity(ctx context.Context, key, owner, repo string) Activity {
	var act Activity
	_ = a.fetch(ctx, key, "activity", func() error {
		var firstErr error // reported to hooks; counters stay best-effort
		if n, err := a.client.CountCommits(ctx, owner, repo); err == nil {
			act.Commits = n
		} else {
			firstErr = err
		}
		if n, err := a.client.CountContributors(ctx, owner, repo); err == nil {
			act.Contributors = n
		} else if firstErr == nil {
			firstErr = err
		}
		if n, err := a.client.CountReleases(ctx, owner, repo); err == nil {
			act.Releases = n
		} else if firstErr == nil {
			firstErr = err
		}
		return firstErr
	})
	return act
}
