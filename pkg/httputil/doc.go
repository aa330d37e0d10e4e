// Package httputil provides HTTP utilities shared by the fact fetchers.
//
// # Overview
//
// This package provides the infrastructure the GitHub client builds on:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [CheckStatus]: Shared mapping from HTTP status codes to domain errors
//
// # Retry
//
// [Retry] re-executes an operation for transient failures only. Wrap a
// transient error (network failure, 5xx response) in [RetryableError] so
// the retry loop knows to attempt it again; all other errors are returned
// immediately.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch()
//	})
//
// # Status Mapping
//
// [CheckStatus] is the single source of truth for interpreting upstream
// response codes:
//
//   - 404 → [errors.ErrCodeNotFound]
//   - 401/403 → [errors.ErrCodeForbidden]
//   - 429 → [errors.ErrCodeRateLimited] (retryable)
//   - 5xx → [errors.ErrCodeUpstream] (retryable)
//
// # Configuration
//
// The default schedule is 3 attempts with a 500ms base backoff, doubling
// each retry, sized so retries stay small next to the client's 10s
// per-request timeout.
package httputil
