package usecase

import (
	"testing"
	"time"

	"heraldbot/internal/domain"
)

func TestGateAdmit(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	gate := Gate{MaxAge: 12 * time.Hour}

	fresh := domain.Article{
		URL:         "https://site/politics/12345678.story",
		Headline:    "Story",
		PublishedAt: now.Add(-time.Hour),
	}

	if !gate.Admit(fresh, false, now) {
		t.Fatalf("expected fresh unposted article to be admitted")
	}

	if gate.Admit(fresh, true, now) {
		t.Fatalf("posted article must be rejected regardless of other inputs")
	}

	noHeadline := fresh
	noHeadline.Headline = ""
	if gate.Admit(noHeadline, false, now) {
		t.Fatalf("article without headline must be rejected")
	}

	noTime := fresh
	noTime.PublishedAt = time.Time{}
	if gate.Admit(noTime, false, now) {
		t.Fatalf("article without publication time must be rejected")
	}
}

func TestGateFreshnessBoundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	gate := Gate{MaxAge: 12 * time.Hour}

	stale := domain.Article{
		Headline:    "Story",
		PublishedAt: now.Add(-12*time.Hour - time.Second),
	}
	if gate.Admit(stale, false, now) {
		t.Fatalf("article 12h01s old must be rejected")
	}

	fresh := domain.Article{
		Headline:    "Story",
		PublishedAt: now.Add(-11*time.Hour - 59*time.Minute),
	}
	if !gate.Admit(fresh, false, now) {
		t.Fatalf("article 11h59m old must be admitted")
	}
}

func TestGateIsPure(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	gate := Gate{MaxAge: 12 * time.Hour}
	article := domain.Article{Headline: "Story", PublishedAt: now.Add(-time.Hour)}

	first := gate.Admit(article, false, now)
	for i := 0; i < 5; i++ {
		if gate.Admit(article, false, now) != first {
			t.Fatalf("verdict changed across identical calls")
		}
	}
}
