package repo

import (
	"strings"

	gh "github.com/google/go-github/v58/github"
)

// Repository is the upstream repository record. It is passed through to
// callers untouched; only the languages URL is ever read.
type Repository = gh.Repository

// Languages maps a language name to the number of bytes written in it
type Languages map[string]uint64

// SearchPage is one page of upstream search results
type SearchPage struct {
	Items             []*Repository
	TotalCount        int
	IncompleteResults bool
}

// RepositoryWithLanguages pairs a record with its language breakdown
type RepositoryWithLanguages struct {
	Repository *Repository
	Languages  Languages
}

// LanguagesURL returns the record's languages URL, or an error when the
// upstream record does not carry one
func LanguagesURL(r *Repository) (string, error) {
	if r == nil {
		return "", ErrMissingLanguagesURL("<nil>")
	}
	u := strings.TrimSpace(r.GetLanguagesURL())
	if u == "" {
		return "", ErrMissingLanguagesURL(DisplayName(r))
	}
	return u, nil
}

// DisplayName returns owner/name for logs and error messages
func DisplayName(r *Repository) string {
	if r == nil {
		return "<nil>"
	}
	if name := r.GetFullName(); name != "" {
		return name
	}
	if name := r.GetName(); name != "" {
		return name
	}
	return "<unnamed>"
}
