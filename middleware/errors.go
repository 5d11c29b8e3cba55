// ABOUTME: JSON error envelope written by middleware
// ABOUTME: Same shape as handler errors so clients parse one format

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/markalston/migration-advisor/models"
)

func writeJSONError(w http.ResponseWriter, message, details string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}
