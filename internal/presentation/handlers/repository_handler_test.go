package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repoproxy/internal/application/service"
	"repoproxy/internal/config"
	"repoproxy/internal/domain/repo"
	"repoproxy/internal/presentation/handlers"

	"github.com/gin-gonic/gin"
	gh "github.com/google/go-github/v58/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGitHubService struct {
	page       *repo.SearchPage
	repository *repo.Repository
	languages  map[string]repo.Languages
	searchErr  error
	getErr     error
}

func (f *fakeGitHubService) SearchRepositories(ctx context.Context, criteria repo.SearchCriteria) (*repo.SearchPage, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.page, nil
}

func (f *fakeGitHubService) GetRepository(ctx context.Context, owner repo.Owner, name repo.Name) (*repo.Repository, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.repository, nil
}

func (f *fakeGitHubService) GetLanguages(ctx context.Context, languagesURL string) (repo.Languages, error) {
	languages, ok := f.languages[languagesURL]
	if !ok {
		return nil, repo.ErrUpstreamStatus("languages", http.StatusNotFound, errors.New("not found"))
	}
	return languages, nil
}

func record(fullName string, stars int) *repo.Repository {
	return &repo.Repository{
		FullName:        gh.String(fullName),
		StargazersCount: gh.Int(stars),
		LanguagesURL:    gh.String("https://api.github.com/repos/" + fullName + "/languages"),
	}
}

func newRouter(fake *fakeGitHubService, settings config.SearchConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if settings.FailurePolicy == "" {
		settings.FailurePolicy = config.FailurePolicySkip
	}

	svc := service.NewRepositoryService(fake, nil, settings)
	h := handlers.NewRepositoryHandler(svc)

	r := gin.New()
	r.GET("/search", h.SearchRepositories)
	r.GET("/repo", h.GetRepository)
	r.POST("/repo", h.GetRepository)
	r.GET("/health", handlers.NewHealthHandler("test").Health)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearch_Page(t *testing.T) {
	fake := &fakeGitHubService{page: &repo.SearchPage{
		Items:             []*repo.Repository{record("gin-gonic/gin", 80000)},
		TotalCount:        321,
		IncompleteResults: true,
	}}
	r := newRouter(fake, config.SearchConfig{})

	w := do(r, http.MethodGet, "/search?repo=gin", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []struct {
			FullName string `json:"full_name"`
		} `json:"items"`
		TotalCount        int  `json:"total_count"`
		IncompleteResults bool `json:"incomplete_results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 321, body.TotalCount)
	assert.True(t, body.IncompleteResults)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "gin-gonic/gin", body.Items[0].FullName)
}

func TestSearch_WithLanguagesSkipsFailures(t *testing.T) {
	fake := &fakeGitHubService{
		page: &repo.SearchPage{Items: []*repo.Repository{record("a/ok", 3), record("b/missing", 2)}},
		languages: map[string]repo.Languages{
			"https://api.github.com/repos/a/ok/languages": {"Go": 10, "C": 2},
		},
	}
	r := newRouter(fake, config.SearchConfig{})

	w := do(r, http.MethodGet, "/search?repo=x&languages=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []struct {
		Repo struct {
			FullName string `json:"full_name"`
		} `json:"repo"`
		Languages map[string]uint64 `json:"languages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "a/ok", body[0].Repo.FullName)
	assert.Equal(t, map[string]uint64{"Go": 10, "C": 2}, body[0].Languages)
}

func TestSearch_EnrichmentDefaultFromConfig(t *testing.T) {
	fake := &fakeGitHubService{page: &repo.SearchPage{Items: []*repo.Repository{}}}
	r := newRouter(fake, config.SearchConfig{EnrichSearchLanguages: true})

	w := do(r, http.MethodGet, "/search?repo=x", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = do(r, http.MethodGet, "/search?repo=x&languages=false", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "{"))
}

func TestSearch_FailPolicy(t *testing.T) {
	fake := &fakeGitHubService{
		page:      &repo.SearchPage{Items: []*repo.Repository{record("b/missing", 2)}},
		languages: map[string]repo.Languages{},
	}
	r := newRouter(fake, config.SearchConfig{FailurePolicy: config.FailurePolicyFail})

	w := do(r, http.MethodGet, "/search?repo=x&languages=1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "b/missing")
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		searchErr  error
		wantStatus int
		wantBody   string
	}{
		{"missing query", "/search", nil, http.StatusBadRequest, "invalid_request"},
		{"blank query", "/search?repo=%20%20", nil, http.StatusBadRequest, "search query cannot be empty"},
		{
			"upstream failure",
			"/search?repo=x",
			repo.ErrUpstreamStatus("search", http.StatusServiceUnavailable, errors.New("github API returned status 503")),
			http.StatusInternalServerError,
			"github search returned status 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeGitHubService{searchErr: tt.searchErr}, config.SearchConfig{})
			w := do(r, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestGetRepository_BodyAndQuery(t *testing.T) {
	fake := &fakeGitHubService{repository: record("octocat/Hello-World", 1)}
	r := newRouter(fake, config.SearchConfig{})

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"POST with body", http.MethodPost, "/repo", `{"owner":"octocat","repo":"Hello-World"}`},
		{"GET with body", http.MethodGet, "/repo", `{"owner":"octocat","repo":"Hello-World"}`},
		{"GET with query", http.MethodGet, "/repo?owner=octocat&repo=Hello-World", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.target, tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"full_name":"octocat/Hello-World"`)
		})
	}
}

func TestGetRepository_ChunkedGetWithoutBodyUsesQuery(t *testing.T) {
	fake := &fakeGitHubService{repository: record("octocat/Hello-World", 1)}
	r := newRouter(fake, config.SearchConfig{})

	req := httptest.NewRequest(http.MethodGet, "/repo?owner=octocat&repo=Hello-World", nil)
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"full_name":"octocat/Hello-World"`)
}

func TestGetRepository_WithLanguages(t *testing.T) {
	fake := &fakeGitHubService{
		repository: record("octocat/Hello-World", 1),
		languages: map[string]repo.Languages{
			"https://api.github.com/repos/octocat/Hello-World/languages": {"Ruby": 99},
		},
	}
	r := newRouter(fake, config.SearchConfig{})

	w := do(r, http.MethodPost, "/repo?languages=true", `{"owner":"octocat","repo":"Hello-World"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Repo struct {
			FullName        string `json:"full_name"`
			StargazersCount int    `json:"stargazers_count"`
		} `json:"repo"`
		Languages map[string]uint64 `json:"languages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "octocat/Hello-World", body.Repo.FullName)
	assert.Equal(t, 1, body.Repo.StargazersCount)
	assert.Equal(t, map[string]uint64{"Ruby": 99}, body.Languages)
}

func TestGetRepository_Errors(t *testing.T) {
	tests := []struct {
		name       string
		fake       *fakeGitHubService
		target     string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "malformed json",
			fake:       &fakeGitHubService{},
			target:     "/repo",
			body:       `{"owner":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing owner",
			fake:       &fakeGitHubService{},
			target:     "/repo",
			body:       `{"repo":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid owner",
		},
		{
			name:       "upstream 404",
			fake:       &fakeGitHubService{getErr: repo.ErrUpstreamStatus("repository", http.StatusNotFound, errors.New("404 Not Found"))},
			target:     "/repo",
			body:       `{"owner":"octocat","repo":"nope"}`,
			wantStatus: http.StatusInternalServerError,
			wantBody:   "github repository returned status 404",
		},
		{
			name:       "missing languages url",
			fake:       &fakeGitHubService{repository: &repo.Repository{FullName: gh.String("octocat/bare")}},
			target:     "/repo?languages=true",
			body:       `{"owner":"octocat","repo":"bare"}`,
			wantStatus: http.StatusInternalServerError,
			wantBody:   "repository octocat/bare has no languages_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(tt.fake, config.SearchConfig{})
			w := do(r, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestResponsesAreIdempotent(t *testing.T) {
	fake := &fakeGitHubService{
		page: &repo.SearchPage{Items: []*repo.Repository{record("a/one", 5), record("b/two", 4)}, TotalCount: 2},
		languages: map[string]repo.Languages{
			"https://api.github.com/repos/a/one/languages": {"Go": 1, "Assembly": 2, "Shell": 3},
			"https://api.github.com/repos/b/two/languages": {"Zig": 9, "C": 8},
		},
	}
	r := newRouter(fake, config.SearchConfig{})

	for _, target := range []string{"/search?repo=x", "/search?repo=x&languages=true"} {
		first := do(r, http.MethodGet, target, "").Body.String()
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, do(r, http.MethodGet, target, "").Body.String(), target)
		}
	}
}

func TestHealth(t *testing.T) {
	r := newRouter(&fakeGitHubService{}, config.SearchConfig{})

	w := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Version)
}
