package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kpauljoseph/rockdeck/pkg/logger"
)

const (
	DefaultSearchURL = "https://www.googleapis.com/customsearch/v1"

	requestTimeout = 20 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; rockdeck-fetch/1.0)"

	// The API serves at most 10 results per page and caps start at 91.
	pageSize = 10
	startCap = 91

	maxDownloadBytes = 32 << 20
)

// Result is one image hit from the search API.
type Result struct {
	Link  string `json:"link"`
	Image struct {
		ThumbnailLink string `json:"thumbnailLink"`
	} `json:"image"`
}

// DownloadURL prefers the full-size link, falling back to the thumbnail.
func (r Result) DownloadURL() string {
	if r.Link != "" {
		return r.Link
	}
	return r.Image.ThumbnailLink
}

type searchResponse struct {
	Items []Result `json:"items"`
}

// Client talks to the Custom Search JSON API and fetches result images.
type Client struct {
	httpClient *http.Client
	searchURL  string
	apiKey     string
	cx         string
	logger     *logger.Logger
}

func NewClient(apiKey, cx string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		searchURL:  DefaultSearchURL,
		apiKey:     apiKey,
		cx:         cx,
		logger:     log,
	}
}

// SetSearchURL overrides the API endpoint, used by tests.
func (c *Client) SetSearchURL(u string) {
	c.searchURL = u
}

// Search pages through image results for query until limit results are
// collected or the API runs dry. rights, when non-empty, is the pipe-joined
// usage-rights filter. A page-level API error ends the search with whatever
// was collected so far; it never fails the batch.
func (c *Client) Search(ctx context.Context, query string, limit int, rights string, pause time.Duration) []Result {
	var results []Result
	start := 1

	for len(results) < limit && start <= startCap {
		remaining := limit - len(results)
		num := pageSize
		if remaining < num {
			num = remaining
		}

		items, err := c.searchPage(ctx, query, start, num, rights)
		if err != nil {
			c.logger.Warn("search page at start=%d failed: %v", start, err)
			break
		}
		if len(items) == 0 {
			break
		}

		results = append(results, items...)
		start += len(items)

		// Pause only between pages, not after the last one.
		if len(results) < limit && start <= startCap {
			sleepCtx(ctx, pause)
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (c *Client) searchPage(ctx context.Context, query string, start, num int, rights string) ([]Result, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("q", query)
	params.Set("searchType", "image")
	params.Set("num", strconv.Itoa(num))
	params.Set("start", strconv.Itoa(start))
	if rights != "" {
		params.Set("rights", rights)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return parsed.Items, nil
}

// Download fetches raw image bytes from link. Failures are the caller's
// cue to skip the item, not to abort.
func (c *Client) Download(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}

// sleepCtx pauses between external calls without ignoring cancellation.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
