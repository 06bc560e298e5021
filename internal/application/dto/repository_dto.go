package dto

import "repoproxy/internal/domain/repo"

// SearchRequest represents the query parameters of GET /search
type SearchRequest struct {
	Query     string
	Sort      string
	Languages *bool
	Page      int
	PerPage   int
}

// RepoRequest identifies one repository by owner and name
type RepoRequest struct {
	Owner string `json:"owner" example:"octocat"`
	Repo  string `json:"repo" example:"Hello-World"`
}

// RepositoryPageResponse represents one page of search results
type RepositoryPageResponse struct {
	Items             []*repo.Repository `json:"items"`
	TotalCount        int                `json:"total_count"`
	IncompleteResults bool               `json:"incomplete_results"`
}

// RepositoryLanguagesResponse represents a repository with its language breakdown
type RepositoryLanguagesResponse struct {
	Repo      *repo.Repository `json:"repo"`
	Languages repo.Languages   `json:"languages"`
}
