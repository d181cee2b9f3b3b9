// Package v1 contains the HTTP handlers for the /api/v1 surface. Handlers
// decode and delegate; validation and business rules live in the usecases.
package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"lushlocks-backend/internal/domain"
)

// decodeJSON decodes a request body, turning malformed JSON into a uniform
// validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("invalid request body")
	}
	return nil
}
