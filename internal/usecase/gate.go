package usecase

import (
	"time"

	"heraldbot/internal/domain"
)

// Gate decides whether a candidate may be announced. It is a pure
// predicate over its inputs; the caller supplies the ledger verdict.
type Gate struct {
	MaxAge time.Duration
}

// Admit rejects already-posted URLs, articles missing a headline or
// publication time, and articles older than MaxAge at the given instant.
func (g Gate) Admit(article domain.Article, posted bool, now time.Time) bool {
	if posted {
		return false
	}
	if !article.HasHeadline() || !article.HasPublishedAt() {
		return false
	}
	if now.Sub(article.PublishedAt) > g.MaxAge {
		return false
	}
	return true
}
