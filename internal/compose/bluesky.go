package compose

import (
	"context"
	"log/slog"

	"heraldbot/internal/domain"
	"heraldbot/internal/ports"
)

const (
	previewTitleLimit       = 300
	previewDescriptionLimit = 1000
)

// Bluesky composes posts carrying a byte-range link facet over the URL
// and an external-embed link card built from the page's preview metadata.
type Bluesky struct {
	limit              int
	defaultDescription string
	images             ports.ImageFetcher
	logger             *slog.Logger
}

var _ ports.Composer = (*Bluesky)(nil)

// NewBluesky configures the character limit, the description used when
// the page carries none, and the fetcher for preview thumbnails.
func NewBluesky(limit int, defaultDescription string, images ports.ImageFetcher, logger *slog.Logger) *Bluesky {
	return &Bluesky{
		limit:              limit,
		defaultDescription: defaultDescription,
		images:             images,
		logger:             logger,
	}
}

// Compose builds the final post. The facet's byte offsets are computed
// over the UTF-8 encoding of the final text: the URL always ends the
// text, so its span is the final len(url) bytes. A preview image that
// cannot be fetched is logged and dropped; the post proceeds without a
// thumbnail.
func (b *Bluesky) Compose(ctx context.Context, headline, url string, preview domain.LinkPreview) (domain.ComposedPost, error) {
	text, headline := buildText(headline, url, b.limit)

	facet := domain.LinkFacet{
		ByteStart: len(text) - len(url),
		ByteEnd:   len(text),
		URI:       url,
	}

	title := preview.Title
	if title == "" {
		title = headline
	}
	description := preview.Description
	if description == "" {
		description = b.defaultDescription
	}

	embed := &domain.ExternalEmbed{
		URI:         url,
		Title:       truncateRunes(title, previewTitleLimit),
		Description: truncateRunes(description, previewDescriptionLimit),
	}

	if preview.ImageURL != "" && b.images != nil {
		data, err := b.images.FetchImage(ctx, preview.ImageURL)
		if err != nil {
			if b.logger != nil {
				b.logger.Warn("preview image fetch failed", "url", preview.ImageURL, "error", err)
			}
		} else {
			embed.ImageData = data
		}
	}

	return domain.ComposedPost{
		Text:   text,
		Facets: []domain.LinkFacet{facet},
		Embed:  embed,
	}, nil
}
