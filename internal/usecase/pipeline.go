package usecase

import (
	"context"
	"log/slog"
	"time"

	"heraldbot/internal/locator"
	"heraldbot/internal/ports"
)

// Target bundles the per-platform capabilities: how to compose a post,
// how to submit it, and which ledger records it. Platforms never share a
// ledger; the same article may need announcing on each independently.
type Target struct {
	Name      string
	Composer  ports.Composer
	Publisher ports.Publisher
	Ledger    ports.Ledger
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Locator   locator.Strategy
	Extractor ports.Extractor
	Guard     Guard
	Gate      Gate
	Targets   []Target
	Logger    *slog.Logger
}

// Pipeline implements the discover-dedup-publish workflow. Each pass
// announces at most one article per target; every per-candidate failure
// skips to the next candidate rather than aborting the run.
type Pipeline struct {
	locator   locator.Strategy
	extractor ports.Extractor
	guard     Guard
	gate      Gate
	targets   []Target
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		locator:   deps.Locator,
		extractor: deps.Extractor,
		guard:     deps.Guard,
		gate:      deps.Gate,
		targets:   deps.Targets,
		logger:    deps.Logger,
	}
}

// Run performs one pass. "Nothing to post" is the expected steady state,
// so exhausting all candidates is a quiet, nil-error outcome.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	if !p.guard.ShouldRun(now) {
		p.info("outside run window, skipping pass")
		return nil
	}

	for _, target := range p.targets {
		p.runTarget(ctx, target, now)
	}
	return nil
}

func (p *Pipeline) runTarget(ctx context.Context, target Target, now time.Time) {
	logger := p.logger
	if logger != nil {
		logger = logger.With("target", target.Name)
	}

	urls, err := p.locator.Locate(ctx)
	if err != nil {
		warn(logger, "locate failed", "error", err)
		return
	}

	for _, url := range urls {
		posted, err := target.Ledger.Contains(ctx, url)
		if err != nil {
			warn(logger, "ledger lookup failed", "url", url, "error", err)
			continue
		}
		if posted {
			continue
		}

		article, err := p.extractor.Extract(ctx, url)
		if err != nil {
			warn(logger, "extract failed", "url", url, "error", err)
			continue
		}

		if !p.gate.Admit(article, posted, now) {
			continue
		}

		post, err := target.Composer.Compose(ctx, article.Headline, url, article.Preview)
		if err != nil {
			warn(logger, "compose failed", "url", url, "error", err)
			continue
		}

		if err := target.Publisher.Publish(ctx, post); err != nil {
			warn(logger, "publish failed", "url", url, "error", err)
			continue
		}

		// Publish-then-record: a crash right here can double-post once
		// on the next pass, which is the accepted trade for never
		// recording an article that was not announced.
		if err := target.Ledger.Append(ctx, url); err != nil {
			warn(logger, "ledger append failed after publish", "url", url, "error", err)
		}

		if logger != nil {
			logger.Info("announced article", "url", url)
		}
		return
	}

	if logger != nil {
		logger.Info("no eligible article this pass", "candidates", len(urls))
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func warn(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
