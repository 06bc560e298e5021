package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"repoproxy/internal/domain/repo"
	"repoproxy/internal/github"
	"repoproxy/internal/instrumentation"
)

// GitHubServiceImpl implements the domain repo.GitHubService interface
type GitHubServiceImpl struct {
	client  *github.Client
	metrics *instrumentation.Metrics
}

// NewGitHubService creates a new GitHub service implementation. metrics may be nil.
func NewGitHubService(client *github.Client, metrics *instrumentation.Metrics) repo.GitHubService {
	return &GitHubServiceImpl{client: client, metrics: metrics}
}

// SearchRepositories runs one repository search against GitHub
func (g *GitHubServiceImpl) SearchRepositories(ctx context.Context, criteria repo.SearchCriteria) (*repo.SearchPage, error) {
	result, err := g.client.SearchRepositories(ctx, criteria.Query.String(), github.SearchOptions{
		Sort:    string(criteria.Sort),
		Page:    criteria.Page,
		PerPage: criteria.PerPage,
	})
	if err != nil {
		return nil, g.classify(instrumentation.OperationSearch, "search", err)
	}
	g.metrics.ObserveUpstream(instrumentation.OperationSearch, instrumentation.OutcomeSuccess)

	items := result.Repositories
	if items == nil {
		items = []*repo.Repository{}
	}

	return &repo.SearchPage{
		Items:             items,
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
	}, nil
}

// GetRepository fetches repository metadata from GitHub
func (g *GitHubServiceImpl) GetRepository(ctx context.Context, owner repo.Owner, name repo.Name) (*repo.Repository, error) {
	repository, err := g.client.GetRepository(ctx, owner.String(), name.String())
	if err != nil {
		return nil, g.classify(instrumentation.OperationGetRepository, "repository", err)
	}
	g.metrics.ObserveUpstream(instrumentation.OperationGetRepository, instrumentation.OutcomeSuccess)

	return repository, nil
}

// GetLanguages fetches a language breakdown from GitHub
func (g *GitHubServiceImpl) GetLanguages(ctx context.Context, languagesURL string) (repo.Languages, error) {
	languages, err := g.client.GetLanguages(ctx, languagesURL)
	if err != nil {
		return nil, g.classify(instrumentation.OperationListLanguages, "languages", err)
	}
	g.metrics.ObserveUpstream(instrumentation.OperationListLanguages, instrumentation.OutcomeSuccess)

	return repo.Languages(languages), nil
}

// classify maps a client error onto the upstream error taxonomy and counts it
func (g *GitHubServiceImpl) classify(operation, label string, err error) error {
	var statusErr *github.StatusError
	if errors.As(err, &statusErr) {
		g.metrics.ObserveUpstream(operation, instrumentation.OutcomeStatusError)
		return repo.ErrUpstreamStatus(label, statusErr.StatusCode, err)
	}

	if isDecodeError(err) {
		g.metrics.ObserveUpstream(operation, instrumentation.OutcomeDecodeError)
		return repo.ErrUpstreamDecode(label, err)
	}

	g.metrics.ObserveUpstream(operation, instrumentation.OutcomeTransportError)
	return repo.ErrUpstreamTransport(label, err)
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
