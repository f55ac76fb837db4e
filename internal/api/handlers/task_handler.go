package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/err0rre/Task-management/internal/api/respond"
	"github.com/err0rre/Task-management/internal/metrics"
	"github.com/err0rre/Task-management/internal/models"
	"github.com/err0rre/Task-management/internal/services"
)

// TaskHandler handles the owner-scoped task endpoints.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// List returns every task owned by the caller.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), userID)
	metrics.TaskOperationsTotal.WithLabelValues("list", resultLabel(err)).Inc()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, tasks)
}

// Create stores a new task for the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}

	var in models.TaskInput
	var task models.Task
	err := decodeJSON(w, r, &in)
	if err == nil {
		task, err = h.service.CreateTask(r.Context(), userID, in)
	}
	metrics.TaskOperationsTotal.WithLabelValues("create", resultLabel(err)).Inc()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, task)
}

// Update changes the fields present in the body of one of the caller's tasks.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var in models.TaskInput
	var task models.Task
	err := decodeJSON(w, r, &in)
	if err == nil {
		task, err = h.service.UpdateTask(r.Context(), userID, id, in)
	}
	metrics.TaskOperationsTotal.WithLabelValues("update", resultLabel(err)).Inc()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

// Delete removes one of the caller's tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	err := h.service.DeleteTask(r.Context(), userID, id)
	metrics.TaskOperationsTotal.WithLabelValues("delete", resultLabel(err)).Inc()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
