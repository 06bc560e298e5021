package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"repoproxy/internal/config"

	gh "github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"
)

// Client handles GitHub API interactions
type Client struct {
	gh *gh.Client
}

// SearchOptions controls a repository search call
type SearchOptions struct {
	Sort    string
	Page    int
	PerPage int
}

// StatusError is returned when GitHub answers with a non-success status
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github API returned status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewClient creates a new GitHub API client. When a token is configured every
// request carries it as a bearer token.
func NewClient(cfg *config.GitHubConfig) (*Client, error) {
	timeout := cfg.RequestTimeout()

	httpClient := &http.Client{Timeout: timeout}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = timeout
	}

	client := gh.NewClient(httpClient)

	baseURL := cfg.APIURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
	}
	client.BaseURL = parsed
	client.UserAgent = cfg.UserAgent

	return &Client{gh: client}, nil
}

// SearchRepositories runs one repository search and returns the upstream page
func (c *Client) SearchRepositories(ctx context.Context, query string, opts SearchOptions) (*gh.RepositoriesSearchResult, error) {
	searchOpts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{
			Page:    opts.Page,
			PerPage: opts.PerPage,
		},
	}
	if opts.Sort != "" {
		searchOpts.Sort = opts.Sort
		searchOpts.Order = "desc"
	}

	result, _, err := c.gh.Search.Repositories(ctx, query, searchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", wrapError(err))
	}

	return result, nil
}

// GetRepository fetches repository metadata for owner/name
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*gh.Repository, error) {
	repository, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, name, wrapError(err))
	}

	return repository, nil
}

// GetLanguages fetches the language breakdown from a languages URL as
// embedded in a repository record
func (c *Client) GetLanguages(ctx context.Context, languagesURL string) (map[string]uint64, error) {
	req, err := c.gh.NewRequest(http.MethodGet, languagesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	languages := make(map[string]uint64)
	if _, err := c.gh.Do(ctx, req, &languages); err != nil {
		return nil, fmt.Errorf("failed to fetch languages: %w", wrapError(err))
	}

	return languages, nil
}

// wrapError turns go-github response errors into a StatusError so callers
// can tell a non-success status from transport and decode failures
func wrapError(err error) error {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return &StatusError{StatusCode: errResp.Response.StatusCode, Err: err}
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &StatusError{StatusCode: rateErr.Response.StatusCode, Err: err}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return &StatusError{StatusCode: abuseErr.Response.StatusCode, Err: err}
	}

	return err
}
