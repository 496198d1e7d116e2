package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/storyshelf/internal/database/maintenance"
)

// OrphanCleaner removes rows whose story, chapter, user or recording is gone.
type OrphanCleaner interface {
	DeleteOrphans() (maintenance.Report, error)
}

// CleanupOrphansTask removes dependents of deleted stories and chapters.
type CleanupOrphansTask struct{}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphans",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphansProcessor creates a processor function for CleanupOrphansTask.
func CleanupOrphansProcessor(cleaner OrphanCleaner, log *zap.Logger) backlite.QueueProcessor[CleanupOrphansTask] {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx context.Context, task CleanupOrphansTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan cleaner not configured")
		}

		report, err := cleaner.DeleteOrphans()
		if err != nil {
			return fmt.Errorf("cleanup orphans: %w", err)
		}

		fields := []zap.Field{zap.Int64("total", report.Total())}
		for table, n := range report.Deleted {
			fields = append(fields, zap.Int64(table, n))
		}
		for table, n := range report.Detached {
			fields = append(fields, zap.Int64(table+"_detached", n))
		}
		log.Info("cleaned up orphan rows", fields...)
		return nil
	}
}

// NewCleanupOrphansQueue creates a backlite queue for orphan cleanup tasks.
func NewCleanupOrphansQueue(cleaner OrphanCleaner, log *zap.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupOrphansProcessor(cleaner, log))
}
