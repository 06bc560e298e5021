package handlers

import (
	"errors"
	"net/http"

	"repoproxy/internal/domain/repo"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// respondError maps a service error onto a status code. Caller input errors
// are 400, everything coming back from GitHub is 500.
func respondError(c *gin.Context, code, fallbackMessage string, err error) {
	_ = c.Error(err)

	var de *repo.DomainError
	message := fallbackMessage
	if errors.As(err, &de) {
		message = de.Message
	}

	if repo.IsInvalidInput(err) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: message,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   code,
		Message: message,
		Details: err.Error(),
	})
}
