package tasks

import (
	"time"

	"github.com/mrlokans/storyshelf/internal/config"
)

// Config tunes the backlite client. Workers, ReleaseAfter and CleanupInterval
// go to the client. Each task type pins its own QueueConfig, so the retry,
// timeout and retention values are only logged as deployment defaults.
type Config struct {
	Workers     int
	MaxRetries  int
	RetryDelay  time.Duration
	TaskTimeout time.Duration

	// ReleaseAfter hands a claimed task back to the queue when its worker
	// has not finished within this window.
	ReleaseAfter time.Duration

	// Completed tasks are kept for RetentionDuration and purged every
	// CleanupInterval.
	CleanupInterval   time.Duration
	RetentionDuration time.Duration
}

// DefaultConfig is two workers, three attempts a minute apart, and a day of
// completed-task history.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// FromAppConfig fills a Config from the application settings, keeping defaults
// for unset values.
func FromAppConfig(app config.Tasks) Config {
	cfg := DefaultConfig()
	if app.Workers > 0 {
		cfg.Workers = app.Workers
	}
	if app.MaxRetries > 0 {
		cfg.MaxRetries = app.MaxRetries
	}
	if app.RetryDelay > 0 {
		cfg.RetryDelay = app.RetryDelay
	}
	if app.TaskTimeout > 0 {
		cfg.TaskTimeout = app.TaskTimeout
	}
	if app.ReleaseAfter > 0 {
		cfg.ReleaseAfter = app.ReleaseAfter
	}
	if app.CleanupInterval > 0 {
		cfg.CleanupInterval = app.CleanupInterval
	}
	if app.RetentionDuration > 0 {
		cfg.RetentionDuration = app.RetentionDuration
	}
	return cfg
}
