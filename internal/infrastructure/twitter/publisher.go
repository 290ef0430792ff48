// Package twitter submits posts through the X API v2 tweets endpoint,
// signing requests with OAuth1 user context.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"heraldbot/internal/domain"
	"heraldbot/internal/ports"
)

const tweetsEndpoint = "https://api.twitter.com/2/tweets"

// Publisher posts tweets with an OAuth1-signed HTTP client.
type Publisher struct {
	client   *http.Client
	endpoint string
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher validates key material and builds the signing client.
func NewPublisher(apiKey, apiSecret, accessToken, accessSecret string) (*Publisher, error) {
	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, &ports.PublishError{
			Platform: "twitter",
			Kind:     ports.KindAuth,
			Err:      fmt.Errorf("incomplete OAuth1 credentials"),
		}
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	client := config.Client(oauth1.NoContext, token)
	client.Timeout = 10 * time.Second

	return &Publisher{client: client, endpoint: tweetsEndpoint}, nil
}

// Publish creates the tweet. Facets and embeds are ignored; the platform
// builds its own card from the URL in the text.
func (p *Publisher) Publish(ctx context.Context, post domain.ComposedPost) error {
	body, err := json.Marshal(map[string]string{"text": post.Text})
	if err != nil {
		return fmt.Errorf("marshal tweet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return &ports.PublishError{Platform: "twitter", Kind: ports.KindPlatform, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		kind := ports.KindPlatform
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = ports.KindAuth
		case http.StatusTooManyRequests:
			kind = ports.KindRateLimit
		}

		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &ports.PublishError{
			Platform: "twitter",
			Kind:     kind,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("%s", strings.TrimSpace(string(detail))),
		}
	}

	return nil
}
