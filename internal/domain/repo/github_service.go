package repo

import (
	"context"
)

// SearchCriteria describes one upstream repository search
type SearchCriteria struct {
	Query   Query
	Sort    Sort
	Page    int
	PerPage int
}

// GitHubService is a domain service interface for interacting with GitHub
// Implementation will be in infrastructure layer
type GitHubService interface {
	// SearchRepositories runs one repository search
	SearchRepositories(ctx context.Context, criteria SearchCriteria) (*SearchPage, error)

	// GetRepository fetches repository metadata
	GetRepository(ctx context.Context, owner Owner, name Name) (*Repository, error)

	// GetLanguages fetches the language breakdown from a record's languages URL
	GetLanguages(ctx context.Context, languagesURL string) (Languages, error)
}
