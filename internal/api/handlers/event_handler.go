package handlers

import (
	"net/http"
	"strconv"

	"github.com/err0rre/Task-management/internal/api/respond"
	"github.com/err0rre/Task-management/internal/services"
)

// EventHandler handles HTTP requests related to the activity log.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get the caller's recent activity.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = services.DefaultEventLimit
	}

	events, err := h.service.GetRecentEvents(r.Context(), userID, limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, events)
}
