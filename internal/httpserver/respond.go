package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

// respondError maps the error taxonomy onto HTTP statuses. Structured
// platform error details ride along for the UI to render field errors.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrDuplicateEmail):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}

	body := gin.H{"message": err.Error()}
	var pe *domain.PlatformError
	if errors.As(err, &pe) && len(pe.Errors) > 0 {
		body["errors"] = pe.Errors
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
