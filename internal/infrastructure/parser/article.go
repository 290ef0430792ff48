package parser

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"heraldbot/internal/domain"
	"heraldbot/internal/ports"
)

// Extractor fetches an article page and parses out its metadata.
type Extractor struct {
	fetcher ports.PageFetcher
	logger  *slog.Logger
}

var _ ports.Extractor = (*Extractor)(nil)

// NewExtractor wires the page fetcher used for article pages.
func NewExtractor(fetcher ports.PageFetcher, logger *slog.Logger) *Extractor {
	return &Extractor{fetcher: fetcher, logger: logger}
}

// Extract retrieves the page and returns whatever metadata it carries.
// Parse problems surface as absent fields, not errors; only a failed
// fetch is reported to the caller.
func (e *Extractor) Extract(ctx context.Context, url string) (domain.Article, error) {
	html, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.Article{}, err
	}

	article := ExtractArticle(html, url)
	if e.logger != nil && (!article.HasHeadline() || !article.HasPublishedAt()) {
		e.logger.Debug("article metadata incomplete",
			"url", url,
			"headline", article.HasHeadline(),
			"published_at", article.HasPublishedAt())
	}
	return article, nil
}

// ExtractArticle parses article-page HTML. Headline is the first h1's
// trimmed text; PublishedAt is the first time element's datetime
// attribute, normalized to UTC. Either is left absent when missing or
// unparsable. Preview fields come from the og:* meta tags.
func ExtractArticle(html, url string) domain.Article {
	article := domain.Article{URL: url}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return article
	}

	article.Headline = strings.TrimSpace(doc.Find("h1").First().Text())

	// Only the first time element counts; when it carries no datetime
	// attribute the timestamp is absent, not taken from a later element.
	if dt, ok := doc.Find("time").First().Attr("datetime"); ok {
		if parsed, ok := parseTimestamp(dt); ok {
			article.PublishedAt = parsed.UTC()
		}
	}

	article.Preview = domain.LinkPreview{
		Title:       metaProperty(doc, "og:title"),
		Description: metaProperty(doc, "og:description"),
		ImageURL:    metaProperty(doc, "og:image"),
	}

	return article
}

// parseTimestamp accepts ISO-8601 with an offset or literal Z suffix, and
// an offset-free form taken as UTC.
func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func metaProperty(doc *goquery.Document, property string) string {
	content, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return strings.TrimSpace(content)
}
