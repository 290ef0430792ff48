package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"heraldbot/internal/infrastructure/fetcher"
)

const base = "https://www.example-news.com"

func TestExtractArticleURLs(t *testing.T) {
	t.Parallel()

	html := `
	<html><body>
	  <a href="/politics/12345678.a-story/">A story</a>
	  <a href="/politics/12345679.b-story/">B story</a>
	  <a href="/about-us">About us</a>
	  <a href="/politics/">Section index</a>
	  <a href="https://elsewhere.com/politics/99999999.offsite/">Offsite</a>
	</body></html>`

	urls := ExtractArticleURLs(html, base)
	sort.Strings(urls)

	want := []string{
		base + "/politics/12345678.a-story",
		base + "/politics/12345679.b-story",
	}
	if len(urls) != len(want) {
		t.Fatalf("expected %d urls, got %d: %v", len(want), len(urls), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("url %d: expected %s, got %s", i, want[i], urls[i])
		}
	}
}

func TestExtractArticleURLsNormalization(t *testing.T) {
	t.Parallel()

	html := `
	<a href="/Politics/12345678.Mixed-Case/?ref=home#comments">One</a>
	<a href="/politics/12345678.mixed-case">Same after normalization</a>`

	urls := ExtractArticleURLs(html, base)
	if len(urls) != 1 {
		t.Fatalf("expected 1 deduplicated url, got %d: %v", len(urls), urls)
	}
	if urls[0] != base+"/politics/12345678.mixed-case" {
		t.Fatalf("unexpected url: %s", urls[0])
	}
}

func TestExtractArticleURLsMalformedHTML(t *testing.T) {
	t.Parallel()

	urls := ExtractArticleURLs("<a href=<<<>>>< not html at all", base)
	if len(urls) != 0 {
		t.Fatalf("expected empty set, got %v", urls)
	}
}

func TestNormalizeCandidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		href string
		want string
		ok   bool
	}{
		{"/politics/12345678.story/", base + "/politics/12345678.story", true},
		{"/politics/12345678.story/?utm=x#frag", base + "/politics/12345678.story", true},
		{"/politics/1234567.short-id/", "", false},
		{"/about-us", "", false},
		{"https://www.example-news.com/politics/12345678.absolute/", "", false},
		{"politics/12345678.relative/", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeCandidate(tc.href, base)
		if ok != tc.ok {
			t.Fatalf("href %q: expected ok=%v, got %v", tc.href, tc.ok, ok)
		}
		if got != tc.want {
			t.Fatalf("href %q: expected %q, got %q", tc.href, tc.want, got)
		}
	}
}

func TestListingLocator(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/politics/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`
		<a href="/politics/12345678.fresh-story/">Fresh</a>
		<a href="/weather">Weather</a>`))
	}))
	defer server.Close()

	pages := fetcher.NewStatic(server.Client(), "test-agent", 5*time.Second, nil)
	loc := NewListingLocator(pages, server.URL, "/politics/", nil)

	urls, err := loc.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 url, got %d: %v", len(urls), urls)
	}
}
