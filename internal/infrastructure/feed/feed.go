package feed

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"heraldbot/internal/infrastructure/parser"
	"heraldbot/internal/locator"
	"heraldbot/internal/ports"
)

// Locator discovers candidate URLs from the section's RSS feed instead of
// its listing page. The feed body is retrieved through the shared page
// fetcher, so it gets the same timeout, pacing, and headers as every
// other request to the site. Feed links are pushed through the same
// normalization and numeric-ID filter as listing links, so both
// strategies produce identical ledger keys.
type Locator struct {
	fetcher ports.PageFetcher
	parser  *gofeed.Parser
	baseURL string
	feedURL string
	logger  *slog.Logger
}

var _ locator.Strategy = (*Locator)(nil)

// NewLocator wires the page fetcher with the section feed endpoint.
func NewLocator(fetcher ports.PageFetcher, baseURL, feedPath string, logger *slog.Logger) *Locator {
	base := strings.TrimSuffix(baseURL, "/")
	return &Locator{
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
		baseURL: base,
		feedURL: base + feedPath,
		logger:  logger,
	}
}

// Name identifies the strategy inside the registry.
func (l *Locator) Name() string {
	return "feed"
}

// Locate fetches and parses the feed and returns normalized article URLs.
func (l *Locator) Locate(ctx context.Context) ([]string, error) {
	body, err := l.fetcher.Fetch(ctx, l.feedURL)
	if err != nil {
		return nil, err
	}

	parsed, err := l.parser.ParseString(body)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(l.baseURL)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, item := range parsed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		if normalized, ok := normalizeItemLink(item.Link, base, l.baseURL); ok {
			seen[normalized] = struct{}{}
		}
	}

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}

	if l.logger != nil {
		l.logger.Info("located article urls from feed", "count", len(urls))
	}
	return urls, nil
}

// normalizeItemLink reduces a feed item link to the listing locator's
// candidate form: same host, numeric-ID path, no query or fragment,
// lowercase, no trailing slash.
func normalizeItemLink(link string, base *url.URL, baseURL string) (string, bool) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	if parsed.Host != "" && !strings.EqualFold(parsed.Host, base.Host) {
		return "", false
	}

	return parser.NormalizeCandidate(parsed.Path, baseURL)
}
