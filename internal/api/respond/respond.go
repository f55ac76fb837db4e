// Package respond writes JSON bodies and the error envelope shared by every
// handler and middleware.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/err0rre/Task-management/internal/models"
	"github.com/rs/zerolog/hlog"
)

// ErrorBody is the canonical error envelope: {"error": "<Code>", "message": "..."}.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err onto the error taxonomy and writes the envelope. Unknown
// errors are logged and reported as a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Classify(err)
	msg := err.Error()
	if guardErr := guardError(err); guardErr != nil {
		msg = guardErr.Error()
	}
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Unhandled error")
		msg = "internal server error"
	}
	JSON(w, status, ErrorBody{Error: code, Message: msg})
}

// Classify returns the HTTP status and error code for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "ValidationError"
	case errors.Is(err, models.ErrDuplicateIdentity):
		return http.StatusBadRequest, "DuplicateIdentity"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "InvalidCredentials"
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthenticated"
	case errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized, "TokenExpired"
	case errors.Is(err, models.ErrTokenMalformed):
		return http.StatusUnauthorized, "TokenMalformed"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	}
	return http.StatusInternalServerError, "InternalError"
}

// guardError returns the bare sentinel for access-guard failures so token
// parser details never reach the client.
func guardError(err error) error {
	for _, sentinel := range []error{models.ErrUnauthenticated, models.ErrTokenExpired, models.ErrTokenMalformed} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}
