package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"heraldbot/internal/domain"
)

type fakeLocator struct {
	urls  []string
	err   error
	calls int
}

func (f *fakeLocator) Name() string { return "fake" }

func (f *fakeLocator) Locate(context.Context) ([]string, error) {
	f.calls++
	return f.urls, f.err
}

type fakeExtractor struct {
	articles map[string]domain.Article
	errs     map[string]error
	calls    int
}

func (f *fakeExtractor) Extract(_ context.Context, url string) (domain.Article, error) {
	f.calls++
	if err := f.errs[url]; err != nil {
		return domain.Article{}, err
	}
	return f.articles[url], nil
}

type fakeComposer struct{}

func (fakeComposer) Compose(_ context.Context, headline, url string, _ domain.LinkPreview) (domain.ComposedPost, error) {
	return domain.ComposedPost{Text: headline + " " + url}, nil
}

type fakePublisher struct {
	failures int
	posts    []string
}

func (f *fakePublisher) Publish(_ context.Context, post domain.ComposedPost) error {
	if f.failures > 0 {
		f.failures--
		return fmt.Errorf("platform unavailable")
	}
	f.posts = append(f.posts, post.Text)
	return nil
}

type fakeLedger struct {
	posted   map[string]bool
	appended []string
}

func newFakeLedger(urls ...string) *fakeLedger {
	posted := map[string]bool{}
	for _, u := range urls {
		posted[u] = true
	}
	return &fakeLedger{posted: posted}
}

func (f *fakeLedger) Contains(_ context.Context, url string) (bool, error) {
	return f.posted[url], nil
}

func (f *fakeLedger) Append(_ context.Context, url string) error {
	f.posted[url] = true
	f.appended = append(f.appended, url)
	return nil
}

func alwaysOpenGuard() Guard { return NewGuard(0, 24, time.UTC) }

func freshArticle(url string, now time.Time) domain.Article {
	return domain.Article{URL: url, Headline: "Story", PublishedAt: now.Add(-time.Hour)}
}

func TestPipelineAnnouncesFirstEligible(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	urls := []string{"https://site/politics/11111111.a", "https://site/politics/22222222.b"}

	extractor := &fakeExtractor{articles: map[string]domain.Article{
		urls[0]: freshArticle(urls[0], now),
		urls[1]: freshArticle(urls[1], now),
	}}
	publisher := &fakePublisher{}
	ledger := newFakeLedger()

	pipeline := NewPipeline(PipelineDeps{
		Locator:   &fakeLocator{urls: urls},
		Extractor: extractor,
		Guard:     alwaysOpenGuard(),
		Gate:      Gate{MaxAge: 12 * time.Hour},
		Targets: []Target{
			{Name: "test", Composer: fakeComposer{}, Publisher: publisher, Ledger: ledger},
		},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(publisher.posts) != 1 {
		t.Fatalf("expected exactly one publish, got %d", len(publisher.posts))
	}
	if len(ledger.appended) != 1 {
		t.Fatalf("expected exactly one ledger append, got %d", len(ledger.appended))
	}
}

func TestPipelineGuardShortCircuits(t *testing.T) {
	t.Parallel()

	loc := &fakeLocator{urls: []string{"https://site/politics/11111111.a"}}
	extractor := &fakeExtractor{}

	pipeline := NewPipeline(PipelineDeps{
		Locator:   loc,
		Extractor: extractor,
		Guard:     NewGuard(7, 20, time.UTC),
		Gate:      Gate{MaxAge: 12 * time.Hour},
		Targets: []Target{
			{Name: "test", Composer: fakeComposer{}, Publisher: &fakePublisher{}, Ledger: newFakeLedger()},
		},
	})

	night := time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)
	if err := pipeline.Run(context.Background(), night); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if loc.calls != 0 || extractor.calls != 0 {
		t.Fatalf("no fetch may happen outside the window (locate=%d extract=%d)", loc.calls, extractor.calls)
	}
}

func TestPipelineAllCandidatesPosted(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	urls := []string{"https://site/politics/11111111.a", "https://site/politics/22222222.b"}

	extractor := &fakeExtractor{}
	publisher := &fakePublisher{}

	pipeline := NewPipeline(PipelineDeps{
		Locator:   &fakeLocator{urls: urls},
		Extractor: extractor,
		Guard:     alwaysOpenGuard(),
		Gate:      Gate{MaxAge: 12 * time.Hour},
		Targets: []Target{
			{Name: "test", Composer: fakeComposer{}, Publisher: publisher, Ledger: newFakeLedger(urls...)},
		},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(publisher.posts) != 0 {
		t.Fatalf("already-posted candidates must produce zero publish attempts")
	}
	if extractor.calls != 0 {
		t.Fatalf("already-posted candidates must not be fetched")
	}
}

func TestPipelinePublisherFailureAdvances(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	urls := []string{"https://site/politics/11111111.a", "https://site/politics/22222222.b"}

	extractor := &fakeExtractor{articles: map[string]domain.Article{
		urls[0]: freshArticle(urls[0], now),
		urls[1]: freshArticle(urls[1], now),
	}}
	publisher := &fakePublisher{failures: 1}
	ledger := newFakeLedger()

	pipeline := NewPipeline(PipelineDeps{
		Locator:   &fakeLocator{urls: urls},
		Extractor: extractor,
		Guard:     alwaysOpenGuard(),
		Gate:      Gate{MaxAge: 12 * time.Hour},
		Targets: []Target{
			{Name: "test", Composer: fakeComposer{}, Publisher: publisher, Ledger: ledger},
		},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(publisher.posts) != 1 {
		t.Fatalf("expected the second candidate to be published, got %d posts", len(publisher.posts))
	}
	if len(ledger.appended) != 1 {
		t.Fatalf("only the published candidate may be recorded, got %v", ledger.appended)
	}
}

func TestPipelineExtractFailureSkipsCandidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	urls := []string{"https://site/politics/11111111.a", "https://site/politics/22222222.b"}

	extractor := &fakeExtractor{
		articles: map[string]domain.Article{urls[1]: freshArticle(urls[1], now)},
		errs:     map[string]error{urls[0]: fmt.Errorf("timeout")},
	}
	publisher := &fakePublisher{}
	ledger := newFakeLedger()

	pipeline := NewPipeline(PipelineDeps{
		Locator:   &fakeLocator{urls: urls},
		Extractor: extractor,
		Guard:     alwaysOpenGuard(),
		Gate:      Gate{MaxAge: 12 * time.Hour},
		Targets: []Target{
			{Name: "test", Composer: fakeComposer{}, Publisher: publisher, Ledger: ledger},
		},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(ledger.appended) != 1 || ledger.appended[0] != urls[1] {
		t.Fatalf("expected only the extractable candidate to be announced, got %v", ledger.appended)
	}
}

func TestPipelineLocateFailureEndsQuietly(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	publisher := &fakePublisher{}

	pipeline := NewPipeline(PipelineDeps{
		Locator:   &fakeLocator{err: fmt.Errorf("listing unreachable")},
		Extractor: &fakeExtractor{},
		Guard:     alwaysOpenGuard(),
		Gate:      Gate{MaxAge: 12 * time.Hour},
		Targets: []Target{
			{Name: "test", Composer: fakeComposer{}, Publisher: publisher, Ledger: newFakeLedger()},
		},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("locator failure must not surface as a run error: %v", err)
	}
	if len(publisher.posts) != 0 {
		t.Fatalf("nothing may be published when location fails")
	}
}

func TestPipelineTargetsAreIndependent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	url := "https://site/politics/11111111.a"

	extractor := &fakeExtractor{articles: map[string]domain.Article{
		url: freshArticle(url, now),
	}}
	first := &fakePublisher{}
	second := &fakePublisher{}
	firstLedger := newFakeLedger(url)
	secondLedger := newFakeLedger()

	pipeline := NewPipeline(PipelineDeps{
		Locator:   &fakeLocator{urls: []string{url}},
		Extractor: extractor,
		Guard:     alwaysOpenGuard(),
		Gate:      Gate{MaxAge: 12 * time.Hour},
		Targets: []Target{
			{Name: "first", Composer: fakeComposer{}, Publisher: first, Ledger: firstLedger},
			{Name: "second", Composer: fakeComposer{}, Publisher: second, Ledger: secondLedger},
		},
	})

	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(first.posts) != 0 {
		t.Fatalf("first target already announced this url")
	}
	if len(second.posts) != 1 {
		t.Fatalf("second target keeps its own ledger and must still announce")
	}
}
