package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"newswire/cache"
	"newswire/config"
	"newswire/models"
	"newswire/providers"
)

// fakeProvider liefert vorgegebene Artikel oder einen Fehler und zählt Aufrufe.
type fakeProvider struct {
	name     string
	articles []*models.Article
	err      error
	calls    int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) FetchArticles(_ context.Context, _ map[string]string) ([]*models.Article, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.articles, nil
}

// fakeCache protokolliert Evictions, Remember rechnet immer durch.
type fakeCache struct {
	mu        sync.Mutex
	forgotten []string
	patterns  []string
}

func (c *fakeCache) Remember(_ context.Context, _ string, _ time.Duration, dest interface{}, compute func() (interface{}, error)) error {
	value, err := compute()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, dest)
}

func (c *fakeCache) Forget(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forgotten = append(c.forgotten, keys...)
	return nil
}

func (c *fakeCache) ForgetPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	return nil
}

func makeArticles(n int) []*models.Article {
	articles := make([]*models.Article, n)
	for i := range articles {
		articles[i] = &models.Article{}
	}
	return articles
}

func newTestIngest(cfg *config.Config, c *fakeCache, fakes ...*fakeProvider) *IngestService {
	provs := make([]providers.Provider, len(fakes))
	for i, f := range fakes {
		provs[i] = f
	}
	return NewIngestService(cfg, zap.NewNop(), provs, c, nil)
}

func TestRunClearsCachesOnFullSuccess(t *testing.T) {
	c := &fakeCache{}
	p1 := &fakeProvider{name: "newsapi", articles: makeArticles(3)}
	p2 := &fakeProvider{name: "guardian", articles: makeArticles(2)}
	svc := newTestIngest(&config.Config{ScrapeMaxAttempts: 3, ScrapeTimeoutSeconds: 300}, c, p1, p2)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Success {
		t.Error("expected successful run")
	}
	if report.Total != 5 {
		t.Errorf("expected total 5, got %d", report.Total)
	}

	if len(c.patterns) != 1 || c.patterns[0] != cache.SearchPattern {
		t.Errorf("expected search pattern eviction, got %v", c.patterns)
	}
	want := map[string]bool{cache.KeyAllSources: true, cache.KeyAllCategories: true, cache.KeyAllAuthors: true}
	if len(c.forgotten) != len(want) {
		t.Fatalf("expected %d forgotten keys, got %v", len(want), c.forgotten)
	}
	for _, key := range c.forgotten {
		if !want[key] {
			t.Errorf("unexpected forgotten key %q", key)
		}
	}
}

func TestRunKeepsCachesOnPartialFailure(t *testing.T) {
	c := &fakeCache{}
	p1 := &fakeProvider{name: "newsapi", err: errors.New("boom")}
	p2 := &fakeProvider{name: "guardian", articles: makeArticles(4)}
	svc := newTestIngest(&config.Config{ScrapeMaxAttempts: 3, ScrapeTimeoutSeconds: 300}, c, p1, p2)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Success {
		t.Error("expected run to be flagged as failed")
	}
	// Der zweite Provider läuft trotz Fehler des ersten.
	if p2.calls != 1 {
		t.Errorf("expected second provider to run, calls=%d", p2.calls)
	}
	if report.Total != 4 {
		t.Errorf("expected successful providers to count, got %d", report.Total)
	}
	if len(c.forgotten) != 0 || len(c.patterns) != 0 {
		t.Errorf("caches must stay untouched on partial failure: %v %v", c.forgotten, c.patterns)
	}
	if len(report.Providers) != 2 || report.Providers[0].Error == "" {
		t.Errorf("expected per-provider results with error, got %+v", report.Providers)
	}
}

func TestRunTreatsDisabledProviderAsSuccess(t *testing.T) {
	c := &fakeCache{}
	// Ein Provider ohne Key liefert (nil, nil) und kippt das Flag nicht.
	p := &fakeProvider{name: "nytimes"}
	svc := newTestIngest(&config.Config{ScrapeMaxAttempts: 3, ScrapeTimeoutSeconds: 300}, c, p)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Success || report.Total != 0 {
		t.Errorf("expected clean empty run, got success=%v total=%d", report.Success, report.Total)
	}
	if len(c.patterns) != 1 {
		t.Errorf("expected cache eviction after clean run, got %v", c.patterns)
	}
}

func TestRunAbortsOnExpiredContext(t *testing.T) {
	c := &fakeCache{}
	p1 := &fakeProvider{name: "newsapi", articles: makeArticles(1)}
	p2 := &fakeProvider{name: "guardian", articles: makeArticles(1)}
	svc := newTestIngest(&config.Config{ScrapeMaxAttempts: 3, ScrapeTimeoutSeconds: 300}, c, p1, p2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if p2.calls != 0 {
		t.Error("expected run to stop before the second provider")
	}
	if len(c.forgotten) != 0 || len(c.patterns) != 0 {
		t.Error("aborted run must not touch the caches")
	}
}

func TestRunJobRetriesUntilAttemptsExhausted(t *testing.T) {
	c := &fakeCache{}
	p := &fakeProvider{name: "newsapi", articles: makeArticles(1)}
	// Timeout 0: jeder Versuch läuft in den abgelaufenen Kontext.
	cfg := &config.Config{ScrapeMaxAttempts: 2, ScrapeTimeoutSeconds: 0}
	svc := newTestIngest(cfg, c, p)

	if _, err := svc.RunJob(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error after retries, got %v", err)
	}
	if p.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", p.calls)
	}
}

func TestRunJobReturnsFirstSuccessfulReport(t *testing.T) {
	c := &fakeCache{}
	p := &fakeProvider{name: "newsapi", articles: makeArticles(7)}
	cfg := &config.Config{ScrapeMaxAttempts: 3, ScrapeTimeoutSeconds: 300}
	svc := newTestIngest(cfg, c, p)

	report, err := svc.RunJob(context.Background())
	if err != nil {
		t.Fatalf("RunJob: %v", err)
	}
	if report.Total != 7 || p.calls != 1 {
		t.Errorf("expected single successful attempt, total=%d calls=%d", report.Total, p.calls)
	}
}
