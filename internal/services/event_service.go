package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/err0rre/Task-management/internal/database"
	"github.com/err0rre/Task-management/internal/models"
)

// Limits for GetRecentEvents.
const (
	DefaultEventLimit = 20
	MaxEventLimit     = 100
)

// EventServiceProvider defines the interface for the per-user activity log.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, userID, eventType, message string, taskID *string) error
	GetRecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventService provides business logic for event management.
type EventService struct {
	db  *sql.DB
	now func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db, now: time.Now}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(ctx context.Context, userID, eventType, message string, taskID *string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, user_id, type, message, task_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.New().String(), userID, eventType, message, taskID, database.ToMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetRecentEvents retrieves the user's most recent events, newest first.
// Out-of-range limits fall back to DefaultEventLimit or are capped at MaxEventLimit.
func (s *EventService) GetRecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if limit > MaxEventLimit {
		limit = MaxEventLimit
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, type, message, task_id, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var taskID sql.NullString
		var createdAt int64
		if err := rows.Scan(&event.ID, &event.UserID, &event.Type, &event.Message, &taskID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if taskID.Valid {
			event.TaskID = &taskID.String
		}
		event.CreatedAt = database.FromMillis(createdAt)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// PruneBefore deletes every event older than cutoff and reports how many were removed.
func (s *EventService) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", database.ToMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}
