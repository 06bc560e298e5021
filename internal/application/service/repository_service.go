package service

import (
	"context"
	"fmt"

	"repoproxy/internal/application/dto"
	"repoproxy/internal/config"
	"repoproxy/internal/domain/events"
	"repoproxy/internal/domain/repo"

	"github.com/rs/zerolog/log"
)

const maxPerPage = 100

// RepositoryService handles repository search and lookup use cases
type RepositoryService struct {
	githubService repo.GitHubService
	dispatcher    *events.Dispatcher
	settings      config.SearchConfig
}

// NewRepositoryService creates a new repository service. dispatcher may be nil.
func NewRepositoryService(githubService repo.GitHubService, dispatcher *events.Dispatcher, settings config.SearchConfig) *RepositoryService {
	return &RepositoryService{
		githubService: githubService,
		dispatcher:    dispatcher,
		settings:      settings,
	}
}

// ShouldEnrichSearch resolves the languages flag of a search request
func (s *RepositoryService) ShouldEnrichSearch(requested *bool) bool {
	if requested != nil {
		return *requested
	}
	return s.settings.EnrichSearchLanguages
}

// ShouldEnrichRepository resolves the languages flag of a detail request
func (s *RepositoryService) ShouldEnrichRepository(requested *bool) bool {
	if requested != nil {
		return *requested
	}
	return s.settings.EnrichRepoLanguages
}

// SearchRepositories runs one upstream search and returns the page as is
func (s *RepositoryService) SearchRepositories(ctx context.Context, req dto.SearchRequest) (*dto.RepositoryPageResponse, error) {
	page, err := s.search(ctx, req)
	if err != nil {
		return nil, err
	}

	return &dto.RepositoryPageResponse{
		Items:             page.Items,
		TotalCount:        page.TotalCount,
		IncompleteResults: page.IncompleteResults,
	}, nil
}

// SearchRepositoriesWithLanguages runs one upstream search, then fetches the
// languages of each result in order, one call at a time
func (s *RepositoryService) SearchRepositoriesWithLanguages(ctx context.Context, req dto.SearchRequest) ([]*dto.RepositoryLanguagesResponse, error) {
	page, err := s.search(ctx, req)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.RepositoryLanguagesResponse, 0, len(page.Items))
	for _, item := range page.Items {
		languages, err := s.fetchLanguages(ctx, item)
		if err == nil {
			results = append(results, toLanguagesResponse(repo.RepositoryWithLanguages{Repository: item, Languages: languages}))
			continue
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("search enrichment cancelled: %w", ctx.Err())
		}
		if s.settings.FailurePolicy == config.FailurePolicyFail {
			return nil, fmt.Errorf("failed to fetch languages for %s: %w", repo.DisplayName(item), err)
		}

		s.skip(ctx, item, err)
	}

	return results, nil
}

// GetRepository fetches one repository record
func (s *RepositoryService) GetRepository(ctx context.Context, req dto.RepoRequest) (*repo.Repository, error) {
	owner, err := repo.NewOwner(req.Owner)
	if err != nil {
		return nil, repo.ErrInvalidRepositoryData("owner", err)
	}

	name, err := repo.NewName(req.Repo)
	if err != nil {
		return nil, repo.ErrInvalidRepositoryData("repo", err)
	}

	repository, err := s.githubService.GetRepository(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository from GitHub: %w", err)
	}

	return repository, nil
}

// GetRepositoryWithLanguages fetches one repository record and its languages
func (s *RepositoryService) GetRepositoryWithLanguages(ctx context.Context, req dto.RepoRequest) (*dto.RepositoryLanguagesResponse, error) {
	repository, err := s.GetRepository(ctx, req)
	if err != nil {
		return nil, err
	}

	languages, err := s.fetchLanguages(ctx, repository)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch languages for %s: %w", repo.DisplayName(repository), err)
	}

	return toLanguagesResponse(repo.RepositoryWithLanguages{
		Repository: repository,
		Languages:  languages,
	}), nil
}

func toLanguagesResponse(r repo.RepositoryWithLanguages) *dto.RepositoryLanguagesResponse {
	return &dto.RepositoryLanguagesResponse{
		Repo:      r.Repository,
		Languages: r.Languages,
	}
}

func (s *RepositoryService) search(ctx context.Context, req dto.SearchRequest) (*repo.SearchPage, error) {
	query, err := repo.NewQuery(req.Query)
	if err != nil {
		return nil, repo.ErrInvalidRepositoryData("repo", err)
	}

	// Anything other than an explicit stars request uses the configured default
	sort := repo.ParseSort(req.Sort)
	if sort == repo.SortBestMatch {
		sort = repo.ParseSort(s.settings.DefaultSort)
	}

	criteria := repo.SearchCriteria{
		Query:   query,
		Sort:    sort,
		Page:    max(req.Page, 0),
		PerPage: min(max(req.PerPage, 0), maxPerPage),
	}

	page, err := s.githubService.SearchRepositories(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories on GitHub: %w", err)
	}

	return page, nil
}

func (s *RepositoryService) fetchLanguages(ctx context.Context, repository *repo.Repository) (repo.Languages, error) {
	languagesURL, err := repo.LanguagesURL(repository)
	if err != nil {
		return nil, err
	}

	languages, err := s.githubService.GetLanguages(ctx, languagesURL)
	if err != nil {
		return nil, err
	}
	if languages == nil {
		languages = repo.Languages{}
	}

	return languages, nil
}

func (s *RepositoryService) skip(ctx context.Context, item *repo.Repository, cause error) {
	event := repo.NewEnrichmentSkippedEvent(repo.DisplayName(item), cause)

	log.Ctx(ctx).Warn().
		Object("event", event).
		Msg("skipping search result without languages")

	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to dispatch enrichment skipped event")
	}
}
