package ports

import (
	"context"
	"time"

	"heraldbot/internal/domain"
)

// PageFetcher retrieves rendered HTML for a URL. Implementations decide
// the transport (plain HTTP or headless browser).
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ImageFetcher retrieves raw bytes, used for preview thumbnails.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Extractor fetches and parses one article page into its metadata.
type Extractor interface {
	Extract(ctx context.Context, url string) (domain.Article, error)
}

// Ledger is the persistent record of URLs already announced on one
// platform. Append must be durable before it returns.
type Ledger interface {
	Contains(ctx context.Context, url string) (bool, error)
	Append(ctx context.Context, url string) error
}

// Composer builds the platform message for an admitted article.
type Composer interface {
	Compose(ctx context.Context, headline, url string, preview domain.LinkPreview) (domain.ComposedPost, error)
}

// Publisher submits a composed post to one platform.
type Publisher interface {
	Publish(ctx context.Context, post domain.ComposedPost) error
}

// Scheduler controls when pipeline passes execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
