package fetcher

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"heraldbot/internal/ports"
)

// Browser fetches pages through headless Chrome, for sections that only
// materialize their article links after client-side rendering.
type Browser struct {
	userAgent string
	timeout   time.Duration
	settle    time.Duration
	pacer     *Pacer
}

var _ ports.PageFetcher = (*Browser)(nil)

// NewBrowser configures a per-fetch headless browser. timeout bounds the
// whole navigation; settle is how long to let scripts run after load.
func NewBrowser(userAgent string, timeout, settle time.Duration, pacer *Pacer) *Browser {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if settle <= 0 {
		settle = 3 * time.Second
	}
	return &Browser{userAgent: userAgent, timeout: timeout, settle: settle, pacer: pacer}
}

// Fetch renders the page and returns the resulting document markup.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	b.pacer.Wait(ctx)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(b.userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, b.timeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(b.settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &ports.FetchError{URL: url, Err: err}
	}
	return html, nil
}
