package github

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/repolens/repolens/pkg/errors"
	"github.com/repolens/repolens/pkg/httputil"
)

// httpTimeout is the fixed per-fetch timeout.
const httpTimeout = 10 * time.Second

// acceptJSON is the standard GitHub API media type.
const acceptJSON = "application/vnd.github.v3+json"

// Client provides access to the GitHub API. It handles authentication,
// per-request timeouts, retries for transient failures, and the shared
// status-code mapping.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests
// (lower rate limits).
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		baseURL: "https://api.github.com",
		token:   token,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchRepo retrieves repository metadata.
func (c *Client) FetchRepo(ctx context.Context, owner, repo string) (*Metadata, error) {
	var data apiRepoResponse
	u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	if err := c.getJSON(ctx, u, &data); err != nil {
		return nil, err
	}

	return &Metadata{
		ID:            data.ID,
		Name:          data.Name,
		FullName:      data.FullName,
		Owner:         data.Owner.Login,
		Description:   data.Description,
		Homepage:      data.Homepage,
		URL:           data.HTMLURL,
		Topics:        data.Topics,
		Language:      data.Language,
		SizeKB:        data.Size,
		Stars:         data.Stars,
		Forks:         data.Forks,
		Watchers:      data.Watchers,
		OpenIssues:    data.OpenIssues,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
		PushedAt:      data.PushedAt,
		License:       data.License.SPDXID,
		DefaultBranch: data.DefaultBranch,
		Private:       data.Private,
		Fork:          data.Fork,
		Archived:      data.Archived,
	}, nil
}

// FetchReadme retrieves the repository README as raw markdown plus its
// rendered HTML form. The HTML fetch is best-effort: a failure there still
// returns the raw README.
func (c *Client) FetchReadme(ctx context.Context, owner, repo string) (*Readme, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/readme", c.baseURL, owner, repo)

	raw, err := c.getText(ctx, u, "application/vnd.github.v3.raw")
	if err != nil {
		return nil, err
	}

	readme := &Readme{Raw: raw}
	if html, err := c.getText(ctx, u, "application/vnd.github.v3.html"); err == nil {
		readme.HTML = html
	}
	return readme, nil
}

// FetchLanguages retrieves the language byte histogram.
func (c *Client) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	var langs map[string]int64
	u := fmt.Sprintf("%s/repos/%s/%s/languages", c.baseURL, owner, repo)
	if err := c.getJSON(ctx, u, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// ListContents lists the files and directories at the top level of the
// repository.
func (c *Client) ListContents(ctx context.Context, owner, repo string) ([]ContentItem, error) {
	var items []apiContentResponse
	u := fmt.Sprintf("%s/repos/%s/%s/contents/", c.baseURL, owner, repo)
	if err := c.getJSON(ctx, u, &items); err != nil {
		return nil, err
	}

	result := make([]ContentItem, len(items))
	for i, item := range items {
		result[i] = ContentItem{
			Name: item.Name,
			Path: item.Path,
			Type: item.Type,
			Size: item.Size,
		}
	}
	return result, nil
}

// FetchFileText retrieves the raw content of a file from the repository.
func (c *Client) FetchFileText(ctx context.Context, owner, repo, path string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, path)
	return c.getText(ctx, u, "application/vnd.github.v3.raw")
}

// CountCommits returns the number of commits on the default branch.
func (c *Client) CountCommits(ctx context.Context, owner, repo string) (int, error) {
	return c.countPaginated(ctx, fmt.Sprintf("%s/repos/%s/%s/commits", c.baseURL, owner, repo))
}

// CountContributors returns the number of contributors.
func (c *Client) CountContributors(ctx context.Context, owner, repo string) (int, error) {
	return c.countPaginated(ctx, fmt.Sprintf("%s/repos/%s/%s/contributors", c.baseURL, owner, repo))
}

// CountReleases returns the number of published releases.
func (c *Client) CountReleases(ctx context.Context, owner, repo string) (int, error) {
	return c.countPaginated(ctx, fmt.Sprintf("%s/repos/%s/%s/releases", c.baseURL, owner, repo))
}

// lastPagePattern extracts the page number of the rel="last" link.
var lastPagePattern = regexp.MustCompile(`[?&]page=(\d+)>; rel="last"`)

// countPaginated counts list items via per_page=1 pagination: the last
// page number in the Link header equals the total count. Without a Link
// header the single returned page holds everything (zero or one item).
func (c *Client) countPaginated(ctx context.Context, base string) (int, error) {
	u := base + "?per_page=1"

	var count int
	err := httputil.RetryWithBackoff(ctx, func() error {
		resp, err := c.do(ctx, u, acceptJSON)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if m := lastPagePattern.FindStringSubmatch(resp.Header.Get("Link")); m != nil {
			count, err = strconv.Atoi(m[1])
			return err
		}

		var items []json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
			return err
		}
		count = len(items)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// getJSON performs a GET request with retries and decodes the JSON body
// into v.
func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		resp, err := c.do(ctx, u, acceptJSON)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		return json.NewDecoder(resp.Body).Decode(v)
	})
}

// getText performs a GET request with retries and returns the body as a
// string.
func (c *Client) getText(ctx context.Context, u, accept string) (string, error) {
	var text string
	err := httputil.RetryWithBackoff(ctx, func() error {
		resp, err := c.do(ctx, u, accept)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		text = string(data)
		return err
	})
	return text, err
}

func (c *Client) do(ctx context.Context, u, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create request")
	}
	req.Header.Set("Accept", accept)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", u)
		}
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeUpstream, err, "fetch %s", u)}
	}

	if err := httputil.CheckStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func isTimeout(err error) bool {
	var uerr *url.Error
	if stderrors.As(err, &uerr) {
		return uerr.Timeout()
	}
	return false
}
