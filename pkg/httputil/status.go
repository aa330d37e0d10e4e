package httputil

import (
	"net/http"

	"github.com/repolens/repolens/pkg/errors"
)

// CheckStatus maps an upstream HTTP status code to a domain error.
// 2xx codes map to nil. Rate-limit and server-side failures are wrapped
// in [RetryableError] so [Retry] will attempt them again; client-side
// failures are terminal.
func CheckStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "upstream returned status %d", code)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrCodeForbidden, "upstream returned status %d", code)
	case code == http.StatusTooManyRequests:
		return &RetryableError{Err: errors.New(errors.ErrCodeRateLimited, "upstream returned status %d", code)}
	case code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeUpstream, "upstream returned status %d", code)}
	default:
		return errors.New(errors.ErrCodeUpstream, "upstream returned status %d", code)
	}
}
