package handlers

import (
	"net/http"

	"github.com/err0rre/Task-management/internal/api/respond"
	"github.com/err0rre/Task-management/internal/services"
)

// UserHandler handles HTTP requests about the signed-in user.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// GetMe returns the account of the verified subject.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}

	user, err := h.service.FindByID(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}
