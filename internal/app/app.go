package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"heraldbot/internal/compose"
	"heraldbot/internal/config"
	"heraldbot/internal/infrastructure/bluesky"
	"heraldbot/internal/infrastructure/feed"
	"heraldbot/internal/infrastructure/fetcher"
	"heraldbot/internal/infrastructure/ledger"
	"heraldbot/internal/infrastructure/parser"
	"heraldbot/internal/infrastructure/scheduler"
	"heraldbot/internal/infrastructure/twitter"
	"heraldbot/internal/locator"
	"heraldbot/internal/logging"
	"heraldbot/internal/ports"
	"heraldbot/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance. Credential problems on any
// enabled platform fail construction; no pipeline work happens without
// working publishers.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	pacer := fetcher.NewPacer(
		time.Duration(cfg.Fetcher.MinDelayMS)*time.Millisecond,
		time.Duration(cfg.Fetcher.MaxDelayMS)*time.Millisecond,
	)
	timeout := time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second

	static := fetcher.NewStatic(nil, cfg.Site.UserAgent, timeout, pacer)

	var pages ports.PageFetcher = static
	if cfg.Fetcher.Strategy == "browser" {
		pages = fetcher.NewBrowser(cfg.Site.UserAgent, 30*time.Second, 3*time.Second, pacer)
	}

	registry := locator.NewRegistry()
	registry.Register(parser.NewListingLocator(pages, cfg.Site.BaseURL, cfg.Site.SectionPath,
		baseLogger.With("component", "locator.listing")))
	registry.Register(feed.NewLocator(pages, cfg.Site.BaseURL, cfg.Site.FeedPath,
		baseLogger.With("component", "locator.feed")))

	strategy, err := registry.Resolve(cfg.Site.Locator)
	if err != nil {
		return nil, err
	}

	extractor := parser.NewExtractor(pages, baseLogger.With("component", "extractor"))

	ledgers, err := newLedgerFactory(cfg.Ledger)
	if err != nil {
		return nil, err
	}

	var targets []usecase.Target

	if cfg.Bluesky.Enabled {
		publisher, err := bluesky.NewPublisher(ctx, cfg.Bluesky.Host, cfg.Bluesky.Handle,
			cfg.Bluesky.AppPassword, baseLogger.With("component", "bluesky"))
		if err != nil {
			return nil, fmt.Errorf("bluesky target: %w", err)
		}
		composer := compose.NewBluesky(cfg.Bluesky.CharLimit, cfg.Bluesky.DefaultDescription,
			static, baseLogger.With("component", "compose.bluesky"))
		targets = append(targets, usecase.Target{
			Name:      "bluesky",
			Composer:  composer,
			Publisher: publisher,
			Ledger:    ledgers("bluesky", cfg.Bluesky.LedgerFile),
		})
	}

	if cfg.Twitter.Enabled {
		publisher, err := twitter.NewPublisher(cfg.Twitter.APIKey, cfg.Twitter.APISecret,
			cfg.Twitter.AccessToken, cfg.Twitter.AccessSecret)
		if err != nil {
			return nil, fmt.Errorf("twitter target: %w", err)
		}
		targets = append(targets, usecase.Target{
			Name:      "twitter",
			Composer:  compose.NewTwitter(cfg.Twitter.CharLimit),
			Publisher: publisher,
			Ledger:    ledgers("twitter", cfg.Twitter.LedgerFile),
		})
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no platform targets enabled")
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Locator:   strategy,
		Extractor: extractor,
		Guard:     usecase.NewGuard(cfg.Window.StartHour, cfg.Window.EndHour, cfg.Window.Location()),
		Gate:      usecase.Gate{MaxAge: cfg.Freshness.MaxAge()},
		Targets:   targets,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline}, nil
}

// Run performs a single pipeline pass.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	return a.pipeline.Run(ctx, time.Now())
}

// RunScheduled keeps the process up and fires passes on the configured
// cron expression until the context is cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Window.Location())
	sched := usecase.NewScheduler(driver, a.pipeline)

	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}

// newLedgerFactory returns a constructor scoping the configured backend
// to one platform.
func newLedgerFactory(cfg config.LedgerConfig) (func(platform, file string) ports.Ledger, error) {
	if cfg.Driver == "postgres" {
		db, err := ledger.OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return func(platform, _ string) ports.Ledger {
			return ledger.NewPostgres(db, platform)
		}, nil
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return func(_, file string) ports.Ledger {
		return ledger.NewFile(filepath.Join(dir, file))
	}, nil
}
