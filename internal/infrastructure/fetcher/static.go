package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"heraldbot/internal/ports"
)

// Static fetches pages with a plain HTTP GET, presenting browser-like
// headers. Suitable when the site serves article markup without
// client-side rendering.
type Static struct {
	client    *http.Client
	userAgent string
	pacer     *Pacer
}

var (
	_ ports.PageFetcher  = (*Static)(nil)
	_ ports.ImageFetcher = (*Static)(nil)
)

// NewStatic wires an HTTP client. A nil client gets the given timeout;
// a supplied client without one gets a copy with the timeout applied,
// so no request through this fetcher can stall indefinitely.
func NewStatic(client *http.Client, userAgent string, timeout time.Duration, pacer *Pacer) *Static {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	} else if client.Timeout == 0 && timeout > 0 {
		bounded := *client
		bounded.Timeout = timeout
		client = &bounded
	}
	return &Static{client: client, userAgent: userAgent, pacer: pacer}
}

// Fetch retrieves the page body as text.
func (s *Static) Fetch(ctx context.Context, url string) (string, error) {
	s.pacer.Wait(ctx)

	body, err := s.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchImage retrieves raw bytes, used for preview thumbnails. Image
// requests are not paced; they target CDN hosts, not the section pages.
func (s *Static) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return s.get(ctx, url)
}

func (s *Static) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ports.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &ports.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ports.FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ports.FetchError{URL: url, Err: err}
	}
	return body, nil
}
