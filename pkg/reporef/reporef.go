// Package reporef parses and canonicalizes repository references.
//
// A reference may arrive in web URL form (https://github.com/owner/repo),
// SSH form (git@github.com:owner/repo.git), or bare owner/repo form. All
// three resolve to the same canonical cache key: the lower-cased
// "owner/repo" pair with any trailing ".git" or "/" stripped.
// Normalization is idempotent: normalizing an already-canonical key
// yields the same key.
package reporef

import (
	"regexp"
	"strings"

	"github.com/repolens/repolens/pkg/errors"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// Reference patterns, tried in order; first match wins.
var patterns = []*regexp.Regexp{
	// Web URL: https://host/owner/repo[.git][/...]
	regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+?)(?:\.git)?(?:/.*)?$`),
	// SSH: git@host:owner/repo[.git]
	regexp.MustCompile(`^git@[^:]+:([^/]+)/([^/]+?)(?:\.git)?/?$`),
	// Bare: owner/repo[.git] (also the canonical key form)
	regexp.MustCompile(`^([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`),
}

// Parse extracts the owner and repository name from a free-form reference.
// It returns an INVALID_REFERENCE error when no pattern matches or the
// extracted parts are not valid GitHub names.
func Parse(raw string) (owner, repo string, err error) {
	ref := strings.TrimSpace(raw)
	for _, p := range patterns {
		m := p.FindStringSubmatch(ref)
		if m == nil {
			continue
		}
		owner, repo = m[1], m[2]
		if !validOwner.MatchString(owner) || !validRepo.MatchString(repo) {
			return "", "", errors.New(errors.ErrCodeInvalidReference, "invalid repository reference: %q", raw)
		}
		return owner, repo, nil
	}
	return "", "", errors.New(errors.ErrCodeInvalidReference, "invalid repository reference: %q", raw)
}

// Normalize converts a free-form reference into its canonical cache key:
// lower-cased "owner/repo" with trailing ".git" and "/" stripped. Web URL
// and SSH forms of the same repository normalize to the same key.
func Normalize(raw string) (string, error) {
	owner, repo, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return strings.ToLower(owner + "/" + repo), nil
}
