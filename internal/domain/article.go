package domain

import "time"

// Article is the metadata extracted from a single candidate page.
// Headline and PublishedAt may be absent (empty / zero) when the page
// lacks them or could not be parsed; the gate rejects on either absence.
type Article struct {
	URL         string
	Headline    string
	PublishedAt time.Time
	Preview     LinkPreview
}

// HasHeadline reports whether a non-empty headline was extracted.
func (a Article) HasHeadline() bool {
	return a.Headline != ""
}

// HasPublishedAt reports whether a publication timestamp was extracted.
func (a Article) HasPublishedAt() bool {
	return !a.PublishedAt.IsZero()
}

// LinkPreview carries the page's preview metadata (og:* tags). Any field
// may be empty; composers supply fallbacks.
type LinkPreview struct {
	Title       string
	Description string
	ImageURL    string
}

// LinkFacet marks a hyperlink inside composed text by UTF-8 byte range.
// ByteEnd is exclusive.
type LinkFacet struct {
	ByteStart int
	ByteEnd   int
	URI       string
}

// ExternalEmbed is a link-card attachment: the announced URL plus preview
// title/description and optional thumbnail bytes.
type ExternalEmbed struct {
	URI         string
	Title       string
	Description string
	ImageData   []byte
}

// ComposedPost is the final platform message, built fresh per publish
// attempt and never persisted.
type ComposedPost struct {
	Text   string
	Facets []LinkFacet
	Embed  *ExternalEmbed
}
