// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/storyshelf/internal/config"
	"github.com/mrlokans/storyshelf/internal/tasks"
)

// Enqueuer saves tasks to the background queue.
type Enqueuer interface {
	Enqueue(tasks ...backlite.Task) ([]string, error)
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// OrphanCleanupScheduler enqueues the orphan cleanup task on a cron schedule.
// The cleanup itself runs on the task queue workers.
type OrphanCleanupScheduler struct {
	queue Enqueuer
	cfg   config.Maintenance
	log   *zap.Logger

	mu        sync.RWMutex
	cron      *cron.Cron
	entryID   cron.EntryID
	running   bool
	stopWatch func() bool
}

func NewOrphanCleanupScheduler(queue Enqueuer, cfg config.Maintenance, log *zap.Logger) *OrphanCleanupScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrphanCleanupScheduler{
		queue: queue,
		cfg:   cfg,
		log:   log.Named("scheduler"),
		cron:  cron.New(cron.WithParser(parser)),
	}
}

// Start registers the job and starts cron. It is a no-op when cleanup is
// disabled or the scheduler already runs; cancelling ctx stops it.
func (s *OrphanCleanupScheduler) Start(ctx context.Context) error {
	if !s.cfg.OrphanCleanupEnabled {
		s.log.Info("orphan cleanup scheduler disabled")
		return nil
	}
	schedule := s.cfg.OrphanCleanupSchedule
	if err := ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	id, err := s.cron.AddFunc(schedule, func() { _ = s.enqueue() })
	if err != nil {
		return fmt.Errorf("failed to schedule orphan cleanup: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.running = true
	s.stopWatch = context.AfterFunc(ctx, s.Stop)

	s.log.Info("orphan cleanup scheduler started",
		zap.String("schedule", schedule),
		zap.Time("next_run", s.nextRunLocked()))
	return nil
}

// Stop waits for an in-flight enqueue and stops cron. Safe to call twice.
func (s *OrphanCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
	s.running = false
	s.log.Info("orphan cleanup scheduler stopped")
}

// RunNow enqueues a cleanup immediately.
func (s *OrphanCleanupScheduler) RunNow() error {
	return s.enqueue()
}

// IsRunning returns whether the scheduler is active.
func (s *OrphanCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// NextRunTime returns when the next cleanup will be enqueued.
func (s *OrphanCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return nil
	}
	t := s.nextRunLocked()
	return &t
}

func (s *OrphanCleanupScheduler) nextRunLocked() time.Time {
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			return entry.Next
		}
	}
	return time.Time{}
}

func (s *OrphanCleanupScheduler) enqueue() error {
	ids, err := s.queue.Enqueue(tasks.CleanupOrphansTask{})
	if err != nil {
		s.log.Error("failed to enqueue orphan cleanup", zap.Error(err))
		return err
	}
	s.log.Info("orphan cleanup enqueued", zap.Strings("task_ids", ids))
	return nil
}
