package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wallpaper-catalog/internal/models"
)

// Origin tells where a listing came from.
type Origin string

const (
	OriginAPI      Origin = "api"
	OriginManifest Origin = "manifest"
	OriginSample   Origin = "sample"
)

// Query selects wallpapers. Empty fields and "all" do not filter.
type Query struct {
	PageType string
	Category string
	Color    string
}

type Result struct {
	Items  []models.Wallpaper
	Origin Origin
	// Err is the API failure that caused a fallback, if any.
	Err error
}

// Client reads the catalog from the wallpaper API and degrades to a local
// image manifest, then to bundled sample data, when the API is unreachable.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	manifestPath string
	assetsURL    string
	retries      int
	backoffs     []time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		assetsURL: "/assets",
		retries:   3,
		backoffs:  []time.Duration{250 * time.Millisecond, 500 * time.Millisecond, time.Second},
	}
}

// WithManifest enables the manifest fallback. Entries are served below
// assetsURL.
func (c *Client) WithManifest(path, assetsURL string) *Client {
	c.manifestPath = path
	if assetsURL != "" {
		c.assetsURL = assetsURL
	}
	return c
}

// WithRetry overrides the number of API attempts and the wait between them.
func (c *Client) WithRetry(attempts int, backoffs ...time.Duration) *Client {
	c.retries = attempts
	c.backoffs = backoffs
	return c
}

// Wallpapers never fails: it always returns a list, possibly empty, and the
// origin it was read from.
func (c *Client) Wallpapers(ctx context.Context, q Query) Result {
	var items []models.Wallpaper
	err := c.RetryWithBackoff(ctx, func() error {
		var err error
		items, err = c.fetch(ctx, q)
		return err
	}, c.retries)
	if err == nil {
		return Result{Items: items, Origin: OriginAPI}
	}
	slog.Warn("catalog API unavailable, falling back", "url", c.baseURL, "error", err)

	if c.manifestPath != "" {
		all, merr := LoadManifest(c.manifestPath, c.assetsURL)
		if merr == nil && len(all) > 0 {
			return Result{Items: Apply(all, q), Origin: OriginManifest, Err: err}
		}
		if merr != nil {
			slog.Warn("image manifest fallback failed", "path", c.manifestPath, "error", merr)
		}
	}

	return Result{Items: Apply(Sample(), q), Origin: OriginSample, Err: err}
}

func (c *Client) fetch(ctx context.Context, q Query) ([]models.Wallpaper, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("no API URL configured")
	}

	params := url.Values{}
	if q.PageType != "" {
		params.Set("pageType", q.PageType)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Color != "" {
		params.Set("color", q.Color)
	}
	endpoint := c.baseURL + "/wallpapers"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch wallpapers: status %d, body: %s", resp.StatusCode, string(body))
	}

	var items []models.Wallpaper
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if items == nil {
		items = []models.Wallpaper{}
	}
	return items, nil
}

// RetryWithBackoff runs fn up to maxRetries times, waiting between attempts.
// It stops early when ctx is done.
func (c *Client) RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if i == maxRetries-1 || len(c.backoffs) == 0 {
			continue
		}
		wait := c.backoffs[min(i, len(c.backoffs)-1)]
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
