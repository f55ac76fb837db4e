package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubPruner struct {
	cutoffs []time.Time
	removed int64
	err     error
}

func (p *stubPruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	p.cutoffs = append(p.cutoffs, cutoff)
	return p.removed, p.err
}

func TestNewScheduler_RejectsBadInput(t *testing.T) {
	if _, err := NewScheduler(&stubPruner{}, 0, "@hourly"); err == nil {
		t.Fatal("expected error for zero retention")
	}
	if _, err := NewScheduler(&stubPruner{}, time.Hour, "not a schedule"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestScheduler_PruneUsesRetentionCutoff(t *testing.T) {
	pruner := &stubPruner{removed: 3}
	s, err := NewScheduler(pruner, 720*time.Hour, "@hourly")
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.prune()

	if len(pruner.cutoffs) != 1 {
		t.Fatalf("expected 1 prune call, got %d", len(pruner.cutoffs))
	}
	if want := now.Add(-720 * time.Hour); !pruner.cutoffs[0].Equal(want) {
		t.Fatalf("cutoff = %v, want %v", pruner.cutoffs[0], want)
	}
}

func TestScheduler_StartPrunesImmediately(t *testing.T) {
	pruner := &stubPruner{err: errors.New("db locked")}
	s, err := NewScheduler(pruner, time.Hour, "@daily")
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	s.Start()
	s.Stop()

	if len(pruner.cutoffs) != 1 {
		t.Fatalf("expected the initial prune to run once, got %d", len(pruner.cutoffs))
	}
}
