package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Task statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task priorities, lower is more urgent.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Priority  *int      `json:"priority"`
	DueDate   *DueDate  `json:"dueDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskInput carries the client-writable task fields. A nil field was absent
// from the request body.
type TaskInput struct {
	Title    *string  `json:"title" validate:"omitnil,min=1,max=255"`
	Status   *string  `json:"status" validate:"omitnil,oneof=pending completed"`
	Priority *int     `json:"priority" validate:"omitnil,min=1,max=3"`
	DueDate  *DueDate `json:"dueDate"`
}

const dateOnlyLayout = "2006-01-02"

// DueDate is a calendar date or an instant. Values parsed from a bare
// YYYY-MM-DD string are written back in that form.
type DueDate struct {
	Time     time.Time
	DateOnly bool
}

// ParseDueDate accepts YYYY-MM-DD or RFC 3339.
func ParseDueDate(s string) (DueDate, error) {
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return DueDate{Time: t, DateOnly: true}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return DueDate{}, fmt.Errorf("%w: dueDate must be YYYY-MM-DD or RFC 3339", ErrValidation)
	}
	return DueDate{Time: t.UTC()}, nil
}

// String renders the date in the form it was given.
func (d DueDate) String() string {
	if d.DateOnly {
		return d.Time.Format(dateOnlyLayout)
	}
	return d.Time.UTC().Format(time.RFC3339)
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: dueDate must be a string", ErrValidation)
	}
	parsed, err := ParseDueDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
