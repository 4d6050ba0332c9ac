// Package client calls the generation endpoint and keeps the form state around a submission.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"social_post_generator/generator"
)

// GeneratePath is the endpoint route relative to the base URL.
const GeneratePath = "/api/social/generate"

// DefaultPlatforms are the platforms the form always requests.
var DefaultPlatforms = []string{"instagram", "facebook", "linkedin"}

// ErrGenerateFailed is reported for any non-2xx reply, whatever its body says.
var ErrGenerateFailed = errors.New("Failed to generate posts")

// Client posts requests to a running server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient gets a 90s timeout, above the
// server's own upstream deadline.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Generate issues one request. The returned slice is never nil on success.
func (c *Client) Generate(ctx context.Context, req generator.Request) ([]generator.Post, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrGenerateFailed
	}

	var data struct {
		Posts []generator.Post `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if data.Posts == nil {
		return []generator.Post{}, nil
	}
	return data.Posts, nil
}
