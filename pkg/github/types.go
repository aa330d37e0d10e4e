package github

import "time"

// Metadata is the repository metadata fact. It is the only mandatory fact
// in an aggregation: if it cannot be fetched, the whole analysis fails.
type Metadata struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Owner         string    `json:"owner"`
	Description   string    `json:"description,omitempty"`
	Homepage      string    `json:"homepage,omitempty"`
	URL           string    `json:"url"`
	Topics        []string  `json:"topics,omitempty"`
	Language      string    `json:"language,omitempty"`
	SizeKB        int       `json:"size_kb"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Watchers      int       `json:"watchers"`
	OpenIssues    int       `json:"open_issues"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	PushedAt      time.Time `json:"pushed_at"`
	License       string    `json:"license,omitempty"`
	DefaultBranch string    `json:"default_branch"`
	Private       bool      `json:"private"`
	Fork          bool      `json:"fork"`
	Archived      bool      `json:"archived"`
}

// Readme holds the repository README in raw markdown and rendered HTML.
type Readme struct {
	Raw  string `json:"raw"`
	HTML string `json:"html,omitempty"`
}

// ContentItem represents an item in a repository directory listing.
type ContentItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	Size int    `json:"size"`
}

// apiRepoResponse is the internal GitHub API response structure.
type apiRepoResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Homepage    string `json:"homepage"`
	HTMLURL     string `json:"html_url"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
	Topics     []string  `json:"topics"`
	Language   string    `json:"language"`
	Size       int       `json:"size"`
	Stars      int       `json:"stargazers_count"`
	Forks      int       `json:"forks_count"`
	Watchers   int       `json:"subscribers_count"`
	OpenIssues int       `json:"open_issues_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	PushedAt   time.Time `json:"pushed_at"`
	License    struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	Archived      bool   `json:"archived"`
}

// apiContentResponse is the internal GitHub API response for directory
// listings.
type apiContentResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
}
