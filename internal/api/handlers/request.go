package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/err0rre/Task-management/internal/api/respond"
	"github.com/err0rre/Task-management/internal/auth"
	"github.com/err0rre/Task-management/internal/models"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object from the request body. Malformed
// bodies are reported as models.ErrValidation.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrValidation)
	}
	return nil
}

// subject returns the verified user ID or writes a 401.
func subject(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respond.Error(w, r, models.ErrUnauthenticated)
		return "", false
	}
	return userID, true
}

// resultLabel is the metrics label for an operation outcome.
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	_, code := respond.Classify(err)
	return code
}
