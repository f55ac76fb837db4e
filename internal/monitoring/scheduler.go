package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/err0rre/Task-management/internal/metrics"
)

const pruneTimeout = 30 * time.Second

// EventPruner removes activity events older than a cutoff.
type EventPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler runs the activity-event retention job on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	events    EventPruner
	retention time.Duration
	now       func() time.Time
}

// NewScheduler creates a scheduler that prunes events older than retention
// on every tick of spec (standard cron syntax or a descriptor like "@hourly").
func NewScheduler(events EventPruner, retention time.Duration, spec string) (*Scheduler, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("retention must be positive, got %s", retention)
	}
	s := &Scheduler{
		cron:      cron.New(),
		events:    events,
		retention: retention,
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.prune); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs one prune immediately and then starts the cron loop.
func (s *Scheduler) Start() {
	log.Info().Dur("retention", s.retention).Msg("Starting event retention scheduler")
	s.prune()
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped event retention scheduler")
}

func (s *Scheduler) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	removed, err := s.events.PruneBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("Scheduler: failed to prune events")
		return
	}
	metrics.EventsPrunedTotal.Add(float64(removed))
	if removed > 0 {
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Scheduler: pruned old events")
	}
}
