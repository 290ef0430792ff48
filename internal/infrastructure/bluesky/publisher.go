// Package bluesky submits posts over the AT Protocol XRPC HTTP API:
// session creation at startup, blob upload for preview thumbnails, and
// record creation for the post itself.
package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"heraldbot/internal/domain"
	"heraldbot/internal/ports"
)

const (
	createSessionPath = "/xrpc/com.atproto.server.createSession"
	uploadBlobPath    = "/xrpc/com.atproto.repo.uploadBlob"
	createRecordPath  = "/xrpc/com.atproto.repo.createRecord"

	postCollection = "app.bsky.feed.post"
	linkFeature    = "app.bsky.richtext.facet#link"
	externalEmbed  = "app.bsky.embed.external"
)

// Publisher holds an authenticated XRPC session against one PDS host.
type Publisher struct {
	host      string
	client    *http.Client
	accessJWT string
	did       string
	logger    *slog.Logger
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher authenticates with the handle and app password. Missing or
// rejected credentials fail construction; nothing else should run without
// a valid session.
func NewPublisher(ctx context.Context, host, handle, appPassword string, logger *slog.Logger) (*Publisher, error) {
	if handle == "" || appPassword == "" {
		return nil, &ports.PublishError{
			Platform: "bluesky",
			Kind:     ports.KindAuth,
			Err:      fmt.Errorf("handle or app password is not set"),
		}
	}

	p := &Publisher{
		host:   strings.TrimSuffix(host, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
	if err := p.createSession(ctx, handle, appPassword); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) createSession(ctx context.Context, handle, appPassword string) error {
	body := map[string]string{"identifier": handle, "password": appPassword}

	var session struct {
		AccessJWT string `json:"accessJwt"`
		DID       string `json:"did"`
	}
	if err := p.postJSON(ctx, createSessionPath, body, &session); err != nil {
		return err
	}

	p.accessJWT = session.AccessJWT
	p.did = session.DID
	return nil
}

type facetIndex struct {
	ByteStart int `json:"byteStart"`
	ByteEnd   int `json:"byteEnd"`
}

type facetFeature struct {
	Type string `json:"$type"`
	URI  string `json:"uri"`
}

type facet struct {
	Index    facetIndex     `json:"index"`
	Features []facetFeature `json:"features"`
}

type external struct {
	URI         string          `json:"uri"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Thumb       json.RawMessage `json:"thumb,omitempty"`
}

type embed struct {
	Type     string   `json:"$type"`
	External external `json:"external"`
}

type postRecord struct {
	Type      string  `json:"$type"`
	Text      string  `json:"text"`
	CreatedAt string  `json:"createdAt"`
	Facets    []facet `json:"facets,omitempty"`
	Embed     *embed  `json:"embed,omitempty"`
}

// Publish creates the post record. A preview thumbnail that fails to
// upload is logged and dropped; the post still goes out with its card.
func (p *Publisher) Publish(ctx context.Context, post domain.ComposedPost) error {
	record := postRecord{
		Type:      postCollection,
		Text:      post.Text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, f := range post.Facets {
		record.Facets = append(record.Facets, facet{
			Index:    facetIndex{ByteStart: f.ByteStart, ByteEnd: f.ByteEnd},
			Features: []facetFeature{{Type: linkFeature, URI: f.URI}},
		})
	}

	if post.Embed != nil {
		ext := external{
			URI:         post.Embed.URI,
			Title:       post.Embed.Title,
			Description: post.Embed.Description,
		}
		if len(post.Embed.ImageData) > 0 {
			blob, err := p.uploadBlob(ctx, post.Embed.ImageData)
			if err != nil {
				if p.logger != nil {
					p.logger.Warn("thumbnail upload failed", "error", err)
				}
			} else {
				ext.Thumb = blob
			}
		}
		record.Embed = &embed{Type: externalEmbed, External: ext}
	}

	body := map[string]any{
		"repo":       p.did,
		"collection": postCollection,
		"record":     record,
	}
	return p.postJSON(ctx, createRecordPath, body, nil)
}

func (p *Publisher) uploadBlob(ctx context.Context, data []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+uploadBlobPath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(data))
	req.Header.Set("Authorization", "Bearer "+p.accessJWT)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ports.PublishError{Platform: "bluesky", Kind: ports.KindPlatform, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result struct {
		Blob json.RawMessage `json:"blob"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode blob response: %w", err)
	}
	return result.Blob, nil
}

func (p *Publisher) postJSON(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.accessJWT != "" {
		req.Header.Set("Authorization", "Bearer "+p.accessJWT)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &ports.PublishError{Platform: "bluesky", Kind: ports.KindPlatform, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	kind := ports.KindPlatform
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ports.KindAuth
	case http.StatusTooManyRequests:
		kind = ports.KindRateLimit
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &ports.PublishError{
		Platform: "bluesky",
		Kind:     kind,
		Status:   resp.StatusCode,
		Err:      fmt.Errorf("%s", strings.TrimSpace(string(detail))),
	}
}
