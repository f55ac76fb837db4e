package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/err0rre/Task-management/internal/models"
)

func TestTaskService_CreateAndList(t *testing.T) {
	db := openTempDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewTaskService(db, nil, nil)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, alice, models.TaskInput{
		Title:    ptr("Buy milk"),
		Status:   ptr(models.StatusPending),
		Priority: ptr(1),
		DueDate:  mustDueDate(t, "2025-01-01"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.UserID != alice {
		t.Fatalf("unexpected task: %+v", created)
	}

	tasks, err := svc.ListTasks(ctx, alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.ID != created.ID || got.Title != "Buy milk" || got.Status != models.StatusPending {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.Priority == nil || *got.Priority != 1 {
		t.Fatalf("priority = %v, want 1", got.Priority)
	}
	if got.DueDate == nil || got.DueDate.String() != "2025-01-01" {
		t.Fatalf("dueDate = %v, want 2025-01-01", got.DueDate)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt = %v, want %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestTaskService_ListEmpty(t *testing.T) {
	db := openTempDB(t)
	bob := seedUser(t, db, "bob")

	tasks, err := NewTaskService(db, nil, nil).ListTasks(context.Background(), bob)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestTaskService_CreateValidation(t *testing.T) {
	db := openTempDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewTaskService(db, nil, nil)
	ctx := context.Background()

	cases := map[string]models.TaskInput{
		"missing title":  {Status: ptr(models.StatusPending)},
		"missing status": {Title: ptr("x")},
		"empty title":    {Title: ptr(""), Status: ptr(models.StatusPending)},
		"blank title":    {Title: ptr("   "), Status: ptr(models.StatusPending)},
		"bad status":     {Title: ptr("x"), Status: ptr("archived")},
		"priority low":   {Title: ptr("x"), Status: ptr(models.StatusPending), Priority: ptr(0)},
		"priority high":  {Title: ptr("x"), Status: ptr(models.StatusPending), Priority: ptr(4)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.CreateTask(ctx, alice, in); !errors.Is(err, models.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	tasks, _ := svc.ListTasks(ctx, alice)
	if len(tasks) != 0 {
		t.Fatalf("invalid input created %d tasks", len(tasks))
	}
}

func TestTaskService_UpdatePartial(t *testing.T) {
	db := openTempDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewTaskService(db, nil, nil)
	ctx := context.Background()

	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	created, err := svc.CreateTask(ctx, alice, models.TaskInput{
		Title:    ptr("Buy milk"),
		Status:   ptr(models.StatusPending),
		Priority: ptr(1),
		DueDate:  mustDueDate(t, "2025-01-01"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	svc.now = func() time.Time { return start.Add(time.Minute) }
	updated, err := svc.UpdateTask(ctx, alice, created.ID, models.TaskInput{Status: ptr(models.StatusCompleted)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.StatusCompleted || updated.Title != "Buy milk" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Priority == nil || *updated.Priority != 1 {
		t.Fatalf("priority should be unchanged, got %v", updated.Priority)
	}
	if !updated.UpdatedAt.Equal(start.Add(time.Minute)) || !updated.CreatedAt.Equal(start) {
		t.Fatalf("timestamps: created %v updated %v", updated.CreatedAt, updated.UpdatedAt)
	}

	tasks, _ := svc.ListTasks(ctx, alice)
	if len(tasks) != 1 || tasks[0].Status != models.StatusCompleted {
		t.Fatalf("update not persisted: %+v", tasks)
	}
	if tasks[0].DueDate == nil || tasks[0].DueDate.String() != "2025-01-01" {
		t.Fatalf("dueDate should be unchanged, got %v", tasks[0].DueDate)
	}
}

func TestTaskService_UpdateValidation(t *testing.T) {
	db := openTempDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewTaskService(db, nil, nil)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, alice, models.TaskInput{Title: ptr("x"), Status: ptr(models.StatusPending)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateTask(ctx, alice, created.ID, models.TaskInput{Status: ptr("done")}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	db := openTempDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewTaskService(db, nil, nil)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, alice, models.TaskInput{Title: ptr("private"), Status: ptr(models.StatusPending)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bobTasks, err := svc.ListTasks(ctx, bob)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bobTasks) != 0 {
		t.Fatalf("bob sees %d of alice's tasks", len(bobTasks))
	}

	if _, err := svc.UpdateTask(ctx, bob, task.ID, models.TaskInput{Title: ptr("hijacked")}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("foreign update: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteTask(ctx, bob, task.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("foreign delete: expected ErrNotFound, got %v", err)
	}

	aliceTasks, _ := svc.ListTasks(ctx, alice)
	if len(aliceTasks) != 1 || aliceTasks[0].Title != "private" {
		t.Fatalf("alice's task was modified: %+v", aliceTasks)
	}
}

func TestTaskService_Delete(t *testing.T) {
	db := openTempDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewTaskService(db, nil, nil)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, alice, models.TaskInput{Title: ptr("x"), Status: ptr(models.StatusPending)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteTask(ctx, alice, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteTask(ctx, alice, task.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateTask(ctx, alice, "does-not-exist", models.TaskInput{Title: ptr("y")}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("update missing: expected ErrNotFound, got %v", err)
	}
}

func TestTaskService_AnnouncesChanges(t *testing.T) {
	db := openTempDB(t)
	alice := seedUser(t, db, "alice")
	events := NewEventService(db)
	notifier := &recordingNotifier{}
	svc := NewTaskService(db, events, notifier)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, alice, models.TaskInput{Title: ptr("Buy milk"), Status: ptr(models.StatusPending)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateTask(ctx, alice, task.ID, models.TaskInput{Status: ptr(models.StatusCompleted)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.DeleteTask(ctx, alice, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	wantActions := []string{models.EventTaskCreated, models.EventTaskUpdated, models.EventTaskDeleted}
	if len(notifier.sent) != len(wantActions) {
		t.Fatalf("expected %d notifications, got %d", len(wantActions), len(notifier.sent))
	}
	for i, want := range wantActions {
		if notifier.sent[i].action != want || notifier.sent[i].userID != alice {
			t.Fatalf("notification %d = %+v, want action %s for %s", i, notifier.sent[i], want, alice)
		}
	}

	recorded, err := events.GetRecentEvents(ctx, alice, 10)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(recorded) != 3 {
		t.Fatalf("expected 3 events, got %d", len(recorded))
	}
	for _, e := range recorded {
		if e.TaskID == nil || *e.TaskID != task.ID {
			t.Fatalf("event %s has task id %v, want %s", e.Type, e.TaskID, task.ID)
		}
	}
}

func TestTaskService_FailedChangeIsSilent(t *testing.T) {
	db := openTempDB(t)
	alice := seedUser(t, db, "alice")
	notifier := &recordingNotifier{}
	svc := NewTaskService(db, nil, notifier)

	if err := svc.DeleteTask(context.Background(), alice, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("failed delete published %d notifications", len(notifier.sent))
	}
}

func TestTaskService_TitleWhitespace(t *testing.T) {
	db := openTempDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewTaskService(db, nil, nil)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, alice, models.TaskInput{Title: ptr("  Buy milk  "), Status: ptr(models.StatusPending)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Fatalf("title = %q, want trimmed", task.Title)
	}

	if _, err := svc.UpdateTask(ctx, alice, task.ID, models.TaskInput{Title: ptr("\t \n")}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("blank update: expected ErrValidation, got %v", err)
	}
	tasks, _ := svc.ListTasks(ctx, alice)
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("title changed by rejected update: %+v", tasks)
	}
}
