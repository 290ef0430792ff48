package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"heraldbot/internal/domain"
	"heraldbot/internal/ports"
)

func newTestPublisher(t *testing.T, endpoint string) *Publisher {
	t.Helper()

	publisher, err := NewPublisher("key", "secret", "token", "token-secret")
	if err != nil {
		t.Fatalf("NewPublisher error: %v", err)
	}
	publisher.endpoint = endpoint
	return publisher
}

func TestPublisherMissingCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewPublisher("key", "", "token", "")

	var pubErr *ports.PublishError
	if !errors.As(err, &pubErr) || pubErr.Kind != ports.KindAuth {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestPublisherPostsTweet(t *testing.T) {
	t.Parallel()

	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "OAuth ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode tweet payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer server.Close()

	publisher := newTestPublisher(t, server.URL)
	post := domain.ComposedPost{Text: "Story https://site/politics/12345678.story"}

	if err := publisher.Publish(context.Background(), post); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if payload["text"] != post.Text {
		t.Fatalf("unexpected tweet text: %q", payload["text"])
	}
}

func TestPublisherStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		kind   ports.PublishKind
	}{
		{http.StatusUnauthorized, ports.KindAuth},
		{http.StatusForbidden, ports.KindAuth},
		{http.StatusTooManyRequests, ports.KindRateLimit},
		{http.StatusBadRequest, ports.KindPlatform},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		publisher := newTestPublisher(t, server.URL)
		err := publisher.Publish(context.Background(), domain.ComposedPost{Text: "Story"})
		server.Close()

		var pubErr *ports.PublishError
		if !errors.As(err, &pubErr) || pubErr.Kind != tc.kind {
			t.Fatalf("status %d: expected kind %v, got %v", tc.status, tc.kind, err)
		}
	}
}
