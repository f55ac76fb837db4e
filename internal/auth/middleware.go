package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/err0rre/Task-management/internal/api/respond"
	"github.com/err0rre/Task-management/internal/metrics"
	"github.com/err0rre/Task-management/internal/models"
)

// Verifier resolves a bearer token to its subject.
type Verifier interface {
	Verify(token string) (string, error)
}

type contextKey string

// SubjectKey is the context key for the verified user ID.
const SubjectKey = contextKey("subject")

// WithSubject returns a copy of ctx carrying the verified user ID.
func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, SubjectKey, subjectID)
}

// SubjectFromContext returns the user ID attached by Middleware.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok && subject != ""
}

// Middleware creates a middleware for protecting routes. It only reads the
// Authorization header; it never touches user or task records.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := bearerToken(r)
			if err != nil {
				reject(w, r, err)
				return
			}

			subject, err := verifier.Verify(tokenStr)
			if err != nil {
				reject(w, r, err)
				return
			}

			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", subject)
			})
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
		})
	}
}

// bearerToken extracts <token> from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", models.ErrUnauthenticated
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", models.ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", models.ErrUnauthenticated
	}
	return token, nil
}

func reject(w http.ResponseWriter, r *http.Request, err error) {
	_, code := respond.Classify(err)
	metrics.GuardRejectionsTotal.WithLabelValues(code).Inc()
	hlog.FromRequest(r).Warn().Str("reason", code).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
	respond.Error(w, r, err)
}
