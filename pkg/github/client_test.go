package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/repolens/repolens/pkg/errors"
)

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient("", WithBaseURL(serverURL))
}

func TestFetchRepo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/pallets/flask" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": 42,
			"name": "flask",
			"full_name": "pallets/flask",
			"owner": {"login": "pallets"},
			"description": "A micro framework",
			"homepage": "https://flask.palletsprojects.com",
			"html_url": "https://github.com/pallets/flask",
			"topics": ["python", "web"],
			"language": "Python",
			"size": 10000,
			"stargazers_count": 65000,
			"forks_count": 16000,
			"subscribers_count": 2100,
			"open_issues_count": 5,
			"license": {"spdx_id": "BSD-3-Clause"},
			"default_branch": "main",
			"archived": false
		}`)
	}))
	defer server.Close()

	meta, err := testClient(t, server.URL).FetchRepo(context.Background(), "pallets", "flask")
	if err != nil {
		t.Fatalf("FetchRepo error: %v", err)
	}

	if meta.FullName != "pallets/flask" {
		t.Errorf("FullName = %s, want pallets/flask", meta.FullName)
	}
	if meta.Owner != "pallets" {
		t.Errorf("Owner = %s, want pallets", meta.Owner)
	}
	if meta.Stars != 65000 {
		t.Errorf("Stars = %d, want 65000", meta.Stars)
	}
	if meta.License != "BSD-3-Clause" {
		t.Errorf("License = %s, want BSD-3-Clause", meta.License)
	}
	if len(meta.Topics) != 2 {
		t.Errorf("Topics = %v, want 2 entries", meta.Topics)
	}
}

func TestFetchRepoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).FetchRepo(context.Background(), "no", "such")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error code = %s, want NOT_FOUND", errors.GetCode(err))
	}
}

func TestFetchRepoForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).FetchRepo(context.Background(), "secret", "repo")
	if !errors.Is(err, errors.ErrCodeForbidden) {
		t.Errorf("error code = %s, want FORBIDDEN", errors.GetCode(err))
	}
}

func TestFetchReadme(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Accept") {
		case "application/vnd.github.v3.raw":
			fmt.Fprint(w, "# Flask\n\nA micro framework.")
		case "application/vnd.github.v3.html":
			fmt.Fprint(w, "<h1>Flask</h1>")
		default:
			w.WriteHeader(http.StatusNotAcceptable)
		}
	}))
	defer server.Close()

	readme, err := testClient(t, server.URL).FetchReadme(context.Background(), "pallets", "flask")
	if err != nil {
		t.Fatalf("FetchReadme error: %v", err)
	}

	if !strings.HasPrefix(readme.Raw, "# Flask") {
		t.Errorf("Raw = %q, want markdown heading", readme.Raw)
	}
	if readme.HTML != "<h1>Flask</h1>" {
		t.Errorf("HTML = %q, want rendered heading", readme.HTML)
	}
}

func TestFetchLanguages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int64{"Python": 90000, "HTML": 10000})
	}))
	defer server.Close()

	langs, err := testClient(t, server.URL).FetchLanguages(context.Background(), "pallets", "flask")
	if err != nil {
		t.Fatalf("FetchLanguages error: %v", err)
	}
	if langs["Python"] != 90000 {
		t.Errorf("Python bytes = %d, want 90000", langs["Python"])
	}
}

func TestListContents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]apiContentResponse{
			{Name: "package.json", Path: "package.json", Type: "file", Size: 120},
			{Name: "src", Path: "src", Type: "dir"},
		})
	}))
	defer server.Close()

	items, err := testClient(t, server.URL).ListContents(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("ListContents error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Name != "package.json" || items[0].Type != "file" {
		t.Errorf("items[0] = %+v", items[0])
	}
}

func TestCountPaginatedWithLinkHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("per_page") != "1" {
			t.Errorf("per_page = %s, want 1", r.URL.Query().Get("per_page"))
		}
		w.Header().Set("Link",
			`<https://api.github.com/repos/o/r/commits?per_page=1&page=2>; rel="next", `+
				`<https://api.github.com/repos/o/r/commits?per_page=1&page=1337>; rel="last"`)
		fmt.Fprint(w, `[{"sha":"abc"}]`)
	}))
	defer server.Close()

	count, err := testClient(t, server.URL).CountCommits(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("CountCommits error: %v", err)
	}
	if count != 1337 {
		t.Errorf("count = %d, want 1337", count)
	}
}

func TestCountPaginatedWithoutLinkHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"tag_name":"v1.0.0"}]`)
	}))
	defer server.Close()

	count, err := testClient(t, server.URL).CountReleases(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("CountReleases error: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestCountPaginatedEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	count, err := testClient(t, server.URL).CountContributors(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("CountContributors error: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]int64{"Go": 1000})
	}))
	defer server.Close()

	// Shrink the retry delay indirectly by using a short-lived context:
	// the first retry waits 1s, so allow a bit more.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	langs, err := testClient(t, server.URL).FetchLanguages(ctx, "o", "r")
	if err != nil {
		t.Fatalf("FetchLanguages error: %v", err)
	}
	if langs["Go"] != 1000 {
		t.Errorf("Go bytes = %d, want 1000", langs["Go"])
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	c := NewClient("secret-token", WithBaseURL(server.URL))
	if _, err := c.FetchRepo(context.Background(), "o", "r"); err != nil {
		t.Fatalf("FetchRepo error: %v", err)
	}
	if got != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want Bearer secret-token", got)
	}
}
