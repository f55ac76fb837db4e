package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func newTestHealthHandler(pingErr, memErr error) *HealthHandler {
	h := NewHealthHandler(stubPinger{err: pingErr})
	h.memory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		if memErr != nil {
			return nil, memErr
		}
		return &mem.VirtualMemoryStat{Total: 1000, Available: 400, UsedPercent: 60}, nil
	}
	return h
}

func TestHealthHandler_Live(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHealthHandler(nil, nil).Live(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHealthHandler(nil, nil).Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got Readiness
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "ok" || got.Database != "up" || got.Memory == nil || got.Memory.UsedPercent != 60 {
		t.Fatalf("unexpected report: %+v", got)
	}
}

func TestHealthHandler_ReadyDatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHealthHandler(errors.New("database is closed"), nil).Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var got Readiness
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Database != "down" {
		t.Fatalf("database = %q", got.Database)
	}
}

func TestHealthHandler_ReadyWithoutMemoryStats(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHealthHandler(nil, errors.New("unsupported platform")).Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got Readiness
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Memory != nil {
		t.Fatalf("memory should be omitted, got %+v", got.Memory)
	}
}
