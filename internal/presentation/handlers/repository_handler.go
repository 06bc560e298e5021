package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"repoproxy/internal/application/dto"
	"repoproxy/internal/application/service"

	"github.com/gin-gonic/gin"
)

// RepositoryHandler handles repository-related HTTP requests
type RepositoryHandler struct {
	repositoryService *service.RepositoryService
}

// NewRepositoryHandler creates a new repository handler
func NewRepositoryHandler(repositoryService *service.RepositoryService) *RepositoryHandler {
	return &RepositoryHandler{
		repositoryService: repositoryService,
	}
}

// SearchRepositories handles GET /search
// @Summary Search GitHub repositories
// @Description Runs a GitHub repository search. With languages=true each result is paired with its language breakdown and the response is an array.
// @Tags Repositories
// @Produce json
// @Param repo query string true "Search query"
// @Param sort query string false "Sort order" Enums(stars)
// @Param languages query bool false "Attach language statistics"
// @Param page query int false "Page number" minimum(1)
// @Param per_page query int false "Items per page" minimum(1) maximum(100)
// @Success 200 {object} dto.RepositoryPageResponse
// @Success 200 {array} dto.RepositoryLanguagesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /search [get]
func (h *RepositoryHandler) SearchRepositories(c *gin.Context) {
	req := dto.SearchRequest{
		Query:     c.Query("repo"),
		Sort:      c.Query("sort"),
		Languages: queryBool(c, "languages"),
		Page:      queryInt(c, "page"),
		PerPage:   queryInt(c, "per_page"),
	}

	if h.repositoryService.ShouldEnrichSearch(req.Languages) {
		results, err := h.repositoryService.SearchRepositoriesWithLanguages(c.Request.Context(), req)
		if err != nil {
			respondError(c, "search_failed", "Failed to search repositories", err)
			return
		}
		c.JSON(http.StatusOK, results)
		return
	}

	page, err := h.repositoryService.SearchRepositories(c.Request.Context(), req)
	if err != nil {
		respondError(c, "search_failed", "Failed to search repositories", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetRepository handles GET /repo and POST /repo
// @Summary Get a GitHub repository
// @Description Returns one repository record, optionally wrapped with its language breakdown
// @Tags Repositories
// @Accept json
// @Produce json
// @Param request body dto.RepoRequest true "Owner and repository name"
// @Param languages query bool false "Attach language statistics"
// @Success 200 {object} dto.RepositoryLanguagesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /repo [post]
func (h *RepositoryHandler) GetRepository(c *gin.Context) {
	var req dto.RepoRequest

	// A request without a body, chunked or not, falls back to query parameters
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Request body must be a JSON object with owner and repo",
				Details: err.Error(),
			})
			return
		}
		req.Owner = c.Query("owner")
		req.Repo = c.Query("repo")
	}

	if h.repositoryService.ShouldEnrichRepository(queryBool(c, "languages")) {
		resp, err := h.repositoryService.GetRepositoryWithLanguages(c.Request.Context(), req)
		if err != nil {
			respondError(c, "fetch_failed", "Failed to fetch repository", err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	repository, err := h.repositoryService.GetRepository(c.Request.Context(), req)
	if err != nil {
		respondError(c, "fetch_failed", "Failed to fetch repository", err)
		return
	}

	c.JSON(http.StatusOK, repository)
}

// queryBool returns nil when the parameter is absent or not a boolean
func queryBool(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// queryInt returns 0 (upstream default) when the parameter is absent or invalid
func queryInt(c *gin.Context, key string) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return 0
}
