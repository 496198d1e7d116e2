package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// Client runs the translation warm-up and orphan cleanup queues on backlite.
// Tasks live in their own SQLite file so queue churn never touches the content
// store, which may be postgres.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config
	log    *zap.Logger

	queues  []string
	started atomic.Bool
}

// NewClient opens the task database next to mainDBPath (see TasksDBPath),
// installs the backlite schema and returns a client ready for Register.
func NewClient(mainDBPath string, cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("tasks")

	db, err := openTaskDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &zapLogger{s: log.Sugar()},
	})
	if err == nil {
		err = client.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{client: client, db: db, config: cfg, log: log}, nil
}

// openTaskDB opens the queue database in WAL mode with a pool sized for the workers.
func openTaskDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// TasksDBPath derives the task database path from the main database path:
// "data/storyshelf.db" becomes "data/storyshelf-tasks.db".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// Register adds queues to the client. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
		c.queues = append(c.queues, q.Config().Name)
	}
}

// Queues returns the names of the registered queues in registration order.
func (c *Client) Queues() []string {
	return append([]string(nil), c.queues...)
}

// Start runs the workers until ctx is cancelled or Stop is called. Calling it
// again while running is a no-op.
func (c *Client) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	c.log.Info("task queue started",
		zap.Int("workers", c.config.Workers),
		zap.Strings("queues", c.queues),
		zap.Int("default_max_retries", c.config.MaxRetries),
		zap.Duration("default_task_timeout", c.config.TaskTimeout),
		zap.Duration("retention", c.config.RetentionDuration))
	c.client.Start(ctx)
}

// Stop waits for running tasks to finish. It reports whether all workers
// finished before the context deadline.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.started.Load() {
		return true
	}

	c.log.Info("stopping task queue")
	finished := c.client.Stop(ctx)
	if !finished {
		c.log.Warn("task queue stopped with timeout, some tasks may not have completed")
	}
	return finished
}

// Close releases the task database. Call it after Stop.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Enqueue saves tasks to their queues and returns the task IDs.
func (c *Client) Enqueue(tasks ...backlite.Task) ([]string, error) {
	ids, err := c.client.Add(tasks...).Save()
	if err != nil {
		return nil, fmt.Errorf("enqueue tasks: %w", err)
	}
	for i, t := range tasks {
		c.log.Debug("task enqueued", zap.String("queue", t.Config().Name), zap.String("task_id", ids[i]))
	}
	return ids, nil
}

// Status returns the status of a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.client.Status(ctx, taskID)
}

// StatusName renders a task status for API responses.
func StatusName(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// zapLogger implements backlite.Logger. backlite passes key/value pairs after the message.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l *zapLogger) Info(message string, params ...any) {
	l.s.Infow(message, params...)
}

func (l *zapLogger) Error(message string, params ...any) {
	l.s.Errorw(message, params...)
}
