package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/err0rre/Task-management/internal/database"
	"github.com/err0rre/Task-management/internal/models"
)

// Notifier pushes a live update to every connection of one user.
type Notifier interface {
	Publish(userID, action string, payload any)
}

// TaskServiceProvider defines the owner-scoped task operations. Every method
// takes the verified user ID; tasks of other users are invisible and report
// models.ErrNotFound exactly like missing ones.
type TaskServiceProvider interface {
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	CreateTask(ctx context.Context, userID string, in models.TaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, in models.TaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// TaskService provides business logic for task management.
type TaskService struct {
	db       *sql.DB
	events   EventServiceProvider
	notifier Notifier
	now      func() time.Time
}

// NewTaskService creates a new TaskService. events and notifier may be nil.
func NewTaskService(db *sql.DB, events EventServiceProvider, notifier Notifier) *TaskService {
	return &TaskService{db: db, events: events, notifier: notifier, now: time.Now}
}

const taskColumns = "id, user_id, title, status, priority, due_date, created_at, updated_at"

// ListTasks returns the user's tasks in creation order.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY created_at, rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask stores a new task owned by userID. Title and status are required.
func (s *TaskService) CreateTask(ctx context.Context, userID string, in models.TaskInput) (models.Task, error) {
	in = trimTitle(in)
	if in.Title == nil {
		return models.Task{}, fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if in.Status == nil {
		return models.Task{}, fmt.Errorf("%w: status is required", models.ErrValidation)
	}
	if err := validateStruct(in); err != nil {
		return models.Task{}, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	task := models.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     *in.Title,
		Status:    *in.Status,
		Priority:  in.Priority,
		DueDate:   in.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		task.ID, task.UserID, task.Title, task.Status, nullableInt(task.Priority), nullableDueDate(task.DueDate),
		database.ToMillis(task.CreatedAt), database.ToMillis(task.UpdatedAt),
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}

	s.announce(ctx, userID, task.ID, models.EventTaskCreated, task, fmt.Sprintf("Task '%s' created.", task.Title))
	return task, nil
}

// UpdateTask overwrites the fields present in the input on a task owned by userID.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, in models.TaskInput) (models.Task, error) {
	in = trimTitle(in)
	if err := validateStruct(in); err != nil {
		return models.Task{}, err
	}

	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	task.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET title = ?, status = ?, priority = ?, due_date = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		task.Title, task.Status, nullableInt(task.Priority), nullableDueDate(task.DueDate),
		database.ToMillis(task.UpdatedAt), taskID, userID,
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return models.Task{}, err
	}

	s.announce(ctx, userID, task.ID, models.EventTaskUpdated, task, fmt.Sprintf("Task '%s' updated.", task.Title))
	return task, nil
}

// DeleteTask removes a task owned by userID.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	s.announce(ctx, userID, taskID, models.EventTaskDeleted, map[string]string{"id": taskID}, "Task deleted.")
	return nil
}

func (s *TaskService) getOwnedTask(ctx context.Context, userID, taskID string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ?", taskID, userID)
	return scanTask(row)
}

// announce records the activity event and pushes the live notification.
// Neither failure undoes the task change.
func (s *TaskService) announce(ctx context.Context, userID, taskID, eventType string, payload any, message string) {
	if s.events != nil {
		if err := s.events.CreateEvent(ctx, userID, eventType, message, &taskID); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("type", eventType).Msg("Failed to record event")
		}
	}
	if s.notifier != nil {
		s.notifier.Publish(userID, eventType, payload)
	}
}

// trimTitle strips surrounding whitespace so a blank title fails min=1.
func trimTitle(in models.TaskInput) models.TaskInput {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	return in
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task: %w", models.ErrNotFound)
	}
	return nil
}

// scanTask is a helper function to scan a single row into a Task struct.
func scanTask(scanner interface{ Scan(...any) error }) (models.Task, error) {
	var task models.Task
	var priority sql.NullInt64
	var dueDate sql.NullString
	var createdAt, updatedAt int64
	err := scanner.Scan(&task.ID, &task.UserID, &task.Title, &task.Status, &priority, &dueDate, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task: %w", models.ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("scan task: %w", err)
	}
	if priority.Valid {
		p := int(priority.Int64)
		task.Priority = &p
	}
	if dueDate.Valid {
		d, err := models.ParseDueDate(dueDate.String)
		if err != nil {
			return models.Task{}, fmt.Errorf("stored due date %q: %v", dueDate.String, err)
		}
		task.DueDate = &d
	}
	task.CreatedAt = database.FromMillis(createdAt)
	task.UpdatedAt = database.FromMillis(updatedAt)
	return task, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableDueDate(d *models.DueDate) any {
	if d == nil {
		return nil
	}
	return d.String()
}
