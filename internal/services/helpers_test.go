package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/err0rre/Task-management/internal/database"
	"github.com/err0rre/Task-management/internal/models"
)

func openTempDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedUser inserts a user row directly and returns its ID.
func seedUser(t *testing.T, db *sql.DB, username string) string {
	t.Helper()
	user, err := NewUserService(db).Create(context.Background(), username, "hash", username+"@example.com")
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user.ID
}

type published struct {
	userID  string
	action  string
	payload any
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []published
}

func (n *recordingNotifier) Publish(userID, action string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, published{userID: userID, action: action, payload: payload})
}

func ptr[T any](v T) *T { return &v }

func mustDueDate(t *testing.T, s string) *models.DueDate {
	t.Helper()
	d, err := models.ParseDueDate(s)
	if err != nil {
		t.Fatalf("parse due date %q: %v", s, err)
	}
	return &d
}
