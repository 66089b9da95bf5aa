// Package openlibrary provides a best-effort cover lookup from the
// Open Library books API. It backs up Google Books results that come
// without a thumbnail.
package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shelflog/shelflog-server/internal/ratelimit"
)

const (
	defaultBaseURL = "https://openlibrary.org"

	defaultRPS   = 2.0
	defaultBurst = 5

	defaultTimeout = 15 * time.Second

	userAgent = "Shelflog/1.0"
)

// Client is a rate-limited Open Library client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	baseURL string
}

// New creates a new Open Library client.
// baseURL overrides the upstream endpoint, mostly for tests.
func New(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		baseURL: baseURL,
	}
}

// bookData is the slice of the bibkey response we care about.
type bookData struct {
	Cover struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
}

// CoverURL looks up a cover image URL by ISBN. Lookups are strictly
// best-effort: every failure mode degrades to an empty string with a
// nil error so callers never treat a missing cover as a hard failure.
func (c *Client) CoverURL(ctx context.Context, isbn string) (string, error) {
	if isbn == "" {
		return "", nil
	}

	// Bibkeys use the compact form, never the hyphenated display form.
	bibkey := "ISBN:" + strings.ReplaceAll(isbn, "-", "")

	params := url.Values{}
	params.Set("bibkeys", bibkey)
	params.Set("format", "json")
	params.Set("jscmd", "data")

	u, err := url.Parse(c.baseURL + "/api/books")
	if err != nil {
		return "", nil
	}
	u.RawQuery = params.Encode()

	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		// Context canceled is the one failure callers should see.
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", nil
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("openlibrary request failed", "isbn", isbn, "error", err)
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("openlibrary unexpected status", "isbn", isbn, "status", resp.StatusCode)
		return "", nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}

	// The response is keyed by the bibkey we asked for.
	var books map[string]bookData
	if err := json.Unmarshal(body, &books); err != nil {
		c.logger.Debug("openlibrary parse failed", "isbn", isbn, "error", err)
		return "", nil
	}

	book, ok := books[bibkey]
	if !ok {
		return "", nil
	}

	// Prefer the biggest cover on offer.
	for _, u := range []string{book.Cover.Large, book.Cover.Medium, book.Cover.Small} {
		if u != "" {
			return u, nil
		}
	}
	return "", nil
}
