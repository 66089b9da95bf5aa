// Package googlebooks provides a rate-limited Google Books API client
// with metadata cleanup for display.
package googlebooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shelflog/shelflog-server/internal/ratelimit"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"

	// Rate limit per upstream host, burst of 5.
	defaultRPS   = 2.0
	defaultBurst = 5

	// HTTP client settings
	defaultTimeout = 30 * time.Second

	// API settings
	defaultMaxResults = 10
	maxMaxResults     = 40

	userAgent = "Shelflog/1.0"
)

// CoverFallback supplies a cover URL for volumes whose search response
// carries no thumbnail. Implementations must be best-effort: an empty
// string with nil error means no cover.
type CoverFallback interface {
	CoverURL(ctx context.Context, isbn string) (string, error)
}

// Config controls client behavior. The zero value works.
type Config struct {
	BaseURL     string // override the API endpoint, mostly for tests
	APIKey      string // optional Google API key
	Country     string // optional country hint passed as the country param
	MaxResults  int    // cap on volumes per search (default 10, max 40)
	Concurrency int    // parallel cover enrichment fetches (default 4)
	Covers      CoverFallback
}

// Client is a rate-limited Google Books API client.
type Client struct {
	http        *http.Client
	limiter     *ratelimit.KeyedRateLimiter
	logger      *slog.Logger
	baseURL     string
	apiKey      string
	country     string
	maxResults  int
	concurrency int
	covers      CoverFallback
}

// New creates a new Google Books client.
func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxMaxResults {
		maxResults = maxMaxResults
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:     ratelimit.New(defaultRPS, defaultBurst),
		logger:      logger,
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		country:     cfg.Country,
		maxResults:  maxResults,
		concurrency: concurrency,
		covers:      cfg.Covers,
	}
}

// doRequest executes a rate-limited GET against the API.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}
	if c.country != "" {
		query.Set("country", c.country)
	}
	u.RawQuery = query.Encode()

	// One bucket per upstream host.
	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("googlebooks request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
