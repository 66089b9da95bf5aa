package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/shelflog/shelflog-server/internal/normalize"
)

// Search queries the volumes endpoint and returns cleaned-up results
// in the order the API returned them. An empty result set is not an
// error.
func (c *Client) Search(ctx context.Context, query string) ([]Volume, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, wrapError("search", query, ErrBadRequest)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.maxResults))

	body, err := c.doRequest(ctx, "/volumes", params)
	if err != nil {
		return nil, wrapError("search", query, err)
	}

	// Undo double UTF-8 encoding before decoding. The repair only
	// touches non-ASCII rune pairs, so JSON structure is unaffected.
	repaired := RepairText(string(body))

	var resp rawVolumesResponse
	if err := json.Unmarshal([]byte(repaired), &resp); err != nil {
		return nil, wrapError("search", query, fmt.Errorf("parse response: %w", err))
	}

	if len(resp.Items) == 0 {
		return nil, nil
	}

	volumes := make([]Volume, 0, len(resp.Items))
	for i := range resp.Items {
		volumes = append(volumes, toVolume(&resp.Items[i]))
	}

	c.enrichCovers(ctx, volumes)

	return volumes, nil
}

// toVolume converts a raw API item into a display-ready Volume.
func toVolume(item *rawVolume) Volume {
	info := &item.VolumeInfo

	v := Volume{
		SourceID: item.ID,
		Title:    normalize.SmartQuotes(info.Title),
		Author:   normalize.JoinAuthors(info.Authors),
		Year:     normalize.PublishedYear(info.PublishedDate),
	}

	for _, ident := range info.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_10":
			v.ISBN10 = normalize.MaskISBN(ident.Identifier)
		case "ISBN_13":
			v.ISBN13 = normalize.MaskISBN(ident.Identifier)
		}
	}
	if len(info.IndustryIdentifiers) > 0 {
		if raw, err := json.Marshal(info.IndustryIdentifiers); err == nil {
			v.IdentifiersJSON = string(raw)
		}
	}

	v.ImageURL = selectThumbnail(info.ImageLinks)
	v.Description = htmlToMarkdown(info.Description)

	return v
}

// selectThumbnail picks the best thumbnail and upgrades it to https.
// Google serves plain-http links by default.
func selectThumbnail(links rawImageLinks) string {
	u := links.Thumbnail
	if u == "" {
		u = links.SmallThumbnail
	}
	if after, ok := strings.CutPrefix(u, "http://"); ok {
		u = "https://" + after
	}
	return u
}

// enrichCovers fills in missing cover URLs from the fallback source.
// A fixed pool of workers claims indices and writes into its own slot,
// so result order never changes and no two goroutines share a slot.
func (c *Client) enrichCovers(ctx context.Context, volumes []Volume) {
	if c.covers == nil {
		return
	}

	var pending []int
	for i := range volumes {
		if volumes[i].ImageURL == "" && bestISBN(&volumes[i]) != "" {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return
	}

	workers := c.concurrency
	if workers > len(pending) {
		workers = len(pending)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				isbn := bestISBN(&volumes[i])
				coverURL, err := c.covers.CoverURL(ctx, isbn)
				if err != nil {
					c.logger.Debug("cover fallback failed", "isbn", isbn, "error", err)
					continue
				}
				volumes[i].ImageURL = coverURL
			}
		}()
	}

	for _, i := range pending {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()
}

// bestISBN prefers the 13-digit identifier.
func bestISBN(v *Volume) string {
	if v.ISBN13 != "" {
		return v.ISBN13
	}
	return v.ISBN10
}
