package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/repolens/repolens/pkg/store"
)

// apiClient talks to a running repolens server. The cache subcommands use
// it so they operate on the live store rather than a fresh in-process one.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) stats(ctx context.Context) (store.Stats, error) {
	var st store.Stats
	err := c.call(ctx, http.MethodGet, "/api/cache/stats", nil, &st)
	return st, err
}

func (c *apiClient) top(ctx context.Context, n int) ([]store.Entry, error) {
	var entries []store.Entry
	q := url.Values{"n": {strconv.Itoa(n)}}
	err := c.call(ctx, http.MethodGet, "/api/cache/top", q, &entries)
	return entries, err
}

func (c *apiClient) search(ctx context.Context, query string, page, pageSize int) (store.Page, error) {
	var p store.Page
	q := url.Values{
		"q":         {query},
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	err := c.call(ctx, http.MethodGet, "/api/cache/search", q, &p)
	return p, err
}

func (c *apiClient) recent(ctx context.Context, page, pageSize int) (store.Page, error) {
	var p store.Page
	q := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	err := c.call(ctx, http.MethodGet, "/api/cache/recent", q, &p)
	return p, err
}

func (c *apiClient) sweep(ctx context.Context) (int, error) {
	var out map[string]int
	if err := c.call(ctx, http.MethodPost, "/api/cache/sweep", nil, &out); err != nil {
		return 0, err
	}
	return out["removed"], nil
}

func (c *apiClient) clear(ctx context.Context) (int, error) {
	var out map[string]int
	if err := c.call(ctx, http.MethodDelete, "/api/cache/", nil, &out); err != nil {
		return 0, err
	}
	return out["removed"], nil
}

func (c *apiClient) call(ctx context.Context, method, path string, query url.Values, v any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reach server at %s: %w", c.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
