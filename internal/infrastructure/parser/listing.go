package parser

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"heraldbot/internal/locator"
	"heraldbot/internal/ports"
)

// Article slugs carry a numeric story ID followed by a dot, e.g.
// /politics/12345678.some-title/. Category and tag pages never do.
var articlePathExpr = regexp.MustCompile(`/\d{8,}\.`)

// ListingLocator discovers candidate URLs by parsing the section's
// listing page for same-site article links.
type ListingLocator struct {
	fetcher ports.PageFetcher
	baseURL string
	pageURL string
	logger  *slog.Logger
}

var _ locator.Strategy = (*ListingLocator)(nil)

// NewListingLocator wires the page fetcher with the site's listing page.
func NewListingLocator(fetcher ports.PageFetcher, baseURL, sectionPath string, logger *slog.Logger) *ListingLocator {
	return &ListingLocator{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		pageURL: strings.TrimSuffix(baseURL, "/") + sectionPath,
		logger:  logger,
	}
}

// Name identifies the strategy inside the registry.
func (l *ListingLocator) Name() string {
	return "listing"
}

// Locate fetches the listing page and extracts normalized article URLs.
func (l *ListingLocator) Locate(ctx context.Context) ([]string, error) {
	html, err := l.fetcher.Fetch(ctx, l.pageURL)
	if err != nil {
		return nil, err
	}

	urls := ExtractArticleURLs(html, l.baseURL)
	if l.logger != nil {
		l.logger.Info("located article urls", "count", len(urls))
	}
	return urls, nil
}

// ExtractArticleURLs pulls every same-site article link out of listing-page
// HTML. Each candidate is fragment- and query-stripped, absolutized against
// baseURL, lowercased, and trailing-slash trimmed; links whose path lacks a
// numeric story ID are discarded. Malformed HTML yields an empty result,
// never an error.
func ExtractArticleURLs(html, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base := strings.TrimSuffix(baseURL, "/")
	seen := map[string]struct{}{}

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if full, ok := NormalizeCandidate(href, base); ok {
			seen[full] = struct{}{}
		}
	})

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	return urls
}

// NormalizeCandidate reduces one href to canonical candidate form:
// fragment and query stripped, absolutized against baseURL, trailing
// slash trimmed, lowercased. It reports false for off-site links and for
// paths without a numeric story ID.
func NormalizeCandidate(href, baseURL string) (string, bool) {
	href, _, _ = strings.Cut(href, "#")
	if !strings.HasPrefix(href, "/") {
		return "", false
	}
	if !articlePathExpr.MatchString(href) {
		return "", false
	}
	href, _, _ = strings.Cut(href, "?")

	full := strings.ToLower(strings.TrimSuffix(strings.TrimSuffix(baseURL, "/")+href, "/"))
	return full, true
}
