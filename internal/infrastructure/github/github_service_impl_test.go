package github_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repoproxy/internal/config"
	"repoproxy/internal/domain/repo"
	"repoproxy/internal/github"
	infraGitHub "repoproxy/internal/infrastructure/github"
	"repoproxy/internal/instrumentation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newService(t *testing.T, handler http.HandlerFunc) (repo.GitHubService, *instrumentation.Metrics, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := github.NewClient(&config.GitHubConfig{
		APIURL:    server.URL,
		UserAgent: "repoproxy-test",
		Timeout:   5,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())
	return infraGitHub.NewGitHubService(client, metrics), metrics, server
}

func mustQuery(t *testing.T, q string) repo.Query {
	t.Helper()
	query, err := repo.NewQuery(q)
	if err != nil {
		t.Fatalf("NewQuery() error = %v", err)
	}
	return query
}

func codeOf(err error) string {
	var de *repo.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestSearchRepositories_CopiesCounts(t *testing.T) {
	svc, metrics, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count":1234,"incomplete_results":true,"items":[{"full_name":"a/b"},{"full_name":"c/d"}]}`)
	})

	page, err := svc.SearchRepositories(context.Background(), repo.SearchCriteria{Query: mustQuery(t, "go")})
	if err != nil {
		t.Fatalf("SearchRepositories() error = %v", err)
	}

	if page.TotalCount != 1234 {
		t.Errorf("TotalCount = %d, want 1234", page.TotalCount)
	}
	if !page.IncompleteResults {
		t.Error("IncompleteResults should be true")
	}
	if len(page.Items) != 2 || page.Items[1].GetFullName() != "c/d" {
		t.Errorf("Items = %v", page.Items)
	}
	if got := testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues(instrumentation.OperationSearch, instrumentation.OutcomeSuccess)); got != 1 {
		t.Errorf("search success count = %v, want 1", got)
	}
}

func TestSearchRepositories_EmptyItemsNotNil(t *testing.T) {
	svc, _, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count":0,"incomplete_results":false}`)
	})

	page, err := svc.SearchRepositories(context.Background(), repo.SearchCriteria{Query: mustQuery(t, "zzz")})
	if err != nil {
		t.Fatalf("SearchRepositories() error = %v", err)
	}
	if page.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestGetRepository_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode string
		contains string
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message":"Forbidden"}`)
			},
			wantCode: repo.CodeUpstreamStatus,
			contains: "403",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"id":"x"}`)
			},
			wantCode: repo.CodeUpstreamDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newService(t, tt.handler)
			owner, _ := repo.NewOwner("octocat")
			name, _ := repo.NewName("hello")

			_, err := svc.GetRepository(context.Background(), owner, name)
			if got := codeOf(err); got != tt.wantCode {
				t.Fatalf("error code = %q, want %q (err = %v)", got, tt.wantCode, err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestGetRepository_Transport(t *testing.T) {
	svc, metrics, server := newService(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	owner, _ := repo.NewOwner("octocat")
	name, _ := repo.NewName("hello")
	_, err := svc.GetRepository(context.Background(), owner, name)
	if got := codeOf(err); got != repo.CodeUpstreamTransport {
		t.Fatalf("error code = %q, want %q (err = %v)", got, repo.CodeUpstreamTransport, err)
	}
	if got := testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues(instrumentation.OperationGetRepository, instrumentation.OutcomeTransportError)); got != 1 {
		t.Errorf("transport error count = %v, want 1", got)
	}
}

func TestGetLanguages(t *testing.T) {
	svc, _, server := newService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Go":5000,"Makefile":120}`)
	})

	languages, err := svc.GetLanguages(context.Background(), server.URL+"/repos/octocat/hello/languages")
	if err != nil {
		t.Fatalf("GetLanguages() error = %v", err)
	}
	if languages["Go"] != 5000 || languages["Makefile"] != 120 {
		t.Errorf("GetLanguages() = %v", languages)
	}
}
