package handlers

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/err0rre/Task-management/internal/api/respond"
	"github.com/err0rre/Task-management/internal/metrics"
	"github.com/err0rre/Task-management/internal/services"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload services.RegisterInput
	err := decodeJSON(w, r, &payload)
	if err == nil {
		err = h.service.Register(r.Context(), payload)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", resultLabel(err)).Inc()
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Registration rejected")
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	var token string
	err := decodeJSON(w, r, &payload)
	if err == nil {
		token, err = h.service.Login(r.Context(), payload.Username, payload.Password)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", resultLabel(err)).Inc()
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Failed authentication attempt")
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"token": token})
}
