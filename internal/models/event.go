package models

import "time"

// Event types recorded in a user's activity log.
const (
	EventUserRegistered = "user.register"
	EventUserLogin      = "user.login"
	EventTaskCreated    = "task.created"
	EventTaskUpdated    = "task.updated"
	EventTaskDeleted    = "task.deleted"
)

// Event represents a loggable action performed by a user.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Type      string    `json:"type"` // e.g., "task.created", "user.login"
	Message   string    `json:"message"`
	TaskID    *string   `json:"taskId,omitempty"` // Nullable for account-level events
	CreatedAt time.Time `json:"createdAt"`
}
