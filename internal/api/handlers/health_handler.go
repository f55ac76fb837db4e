package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/err0rre/Task-management/internal/api/respond"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// MemoryStatus is the host memory section of the readiness report.
type MemoryStatus struct {
	Total       uint64  `json:"total"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"usedPercent"`
}

// Readiness is the body of GET /health/ready.
type Readiness struct {
	Status   string        `json:"status"`
	Database string        `json:"database"`
	Memory   *MemoryStatus `json:"memory,omitempty"`
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db     Pinger
	memory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, memory: mem.VirtualMemoryWithContext}
}

// Welcome answers the root path with a plain-text greeting.
func Welcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Welcome to the Task Manager API! Try visiting /api/tasks to see the tasks."))
}

// Live reports that the process is serving requests.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports database reachability and host memory usage.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	report := Readiness{Status: "ok", Database: "up"}
	status := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Readiness: database unreachable")
		report.Status = "unavailable"
		report.Database = "down"
		status = http.StatusServiceUnavailable
	}

	if vm, err := h.memory(ctx); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Readiness: failed to read memory stats")
	} else {
		report.Memory = &MemoryStatus{Total: vm.Total, Available: vm.Available, UsedPercent: vm.UsedPercent}
	}

	respond.JSON(w, status, report)
}
