package platform

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

// decodeError turns a non-2xx response into a taxonomy error. The
// structured platform body stays reachable through errors.As so callers
// can inspect individual error codes.
func decodeError(status int, body []byte) error {
	pe := &domain.PlatformError{
		StatusCode: status,
		Message:    http.StatusText(status),
	}
	var parsed domain.PlatformError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		pe.Message = parsed.Message
		pe.Errors = parsed.Errors
	}

	switch {
	case isDuplicateEmail(pe):
		return fmt.Errorf("%w: %w", domain.ErrDuplicateEmail, pe)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, pe)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %w", domain.ErrConflict, pe)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, pe)
	}
	return pe
}

func isDuplicateEmail(pe *domain.PlatformError) bool {
	for _, item := range pe.Errors {
		if item.Code == "DuplicateField" && (item.Field == "" || item.Field == "email") {
			return true
		}
	}
	return false
}
