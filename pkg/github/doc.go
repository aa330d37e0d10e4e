// Package github provides an HTTP client for the GitHub API.
//
// # Overview
//
// This package fetches the independent facts the analyzer aggregates for
// one repository: metadata, README, language byte histogram, top-level
// contents, and activity counts (commits, contributors, releases).
//
// # Usage
//
//	client := github.NewClient(token)
//
//	meta, err := client.FetchRepo(ctx, "pallets", "flask")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Stars:", meta.Stars)
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
//
// # Failure Modes
//
// Every fetch carries the client's fixed 10 second timeout. Response codes
// are mapped through [httputil.CheckStatus], so 404 surfaces as NOT_FOUND,
// 401/403 as FORBIDDEN, and 5xx as a retryable UPSTREAM_ERROR; transient
// failures are retried with exponential backoff before being returned.
//
// # Counting
//
// Activity counts use the per_page=1 pagination trick: when GitHub returns
// a Link header with rel="last", the last page number is the total item
// count; otherwise the single page's length is the count.
package github
