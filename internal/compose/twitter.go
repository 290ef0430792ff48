package compose

import (
	"context"

	"heraldbot/internal/domain"
	"heraldbot/internal/ports"
)

// Twitter composes plain-text posts; the platform renders its own link
// card from the trailing URL, so no facets or embed are attached.
type Twitter struct {
	limit int
}

var _ ports.Composer = (*Twitter)(nil)

// NewTwitter configures the character limit.
func NewTwitter(limit int) *Twitter {
	return &Twitter{limit: limit}
}

// Compose builds the final post text, truncating the headline so the
// full URL always survives the limit.
func (t *Twitter) Compose(_ context.Context, headline, url string, _ domain.LinkPreview) (domain.ComposedPost, error) {
	text, _ := buildText(headline, url, t.limit)
	return domain.ComposedPost{Text: text}, nil
}
