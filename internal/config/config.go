package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Seed
		Translation
		Storage
		Tasks
		Maintenance
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver string // "sqlite" or "postgres"
		Path   string // sqlite file path
		DSN    string // postgres connection string
	}
	Log struct {
		Level    string
		Encoding string
	}
	Seed struct {
		Enabled bool // Run the demo-content seeder at startup
	}
	Translation struct {
		APIKey  string
		BaseURL string // Optional OpenAI-compatible endpoint
		Model   string
		Timeout time.Duration
	}
	Storage struct {
		Bucket        string
		Region        string
		Endpoint      string // Optional S3-compatible endpoint (MinIO, R2, ...)
		PublicBaseURL string // Base URL used to build public links to uploaded narrations
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Maintenance struct {
		OrphanCleanupEnabled  bool
		OrphanCleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "json")
	v.SetDefault("seed_enabled", true)

	// Translation defaults
	v.SetDefault("translation_api_key", "")
	v.SetDefault("translation_base_url", "")
	v.SetDefault("translation_model", DefaultTranslationModel)
	v.SetDefault("translation_timeout", "30s")

	// Audio storage defaults
	v.SetDefault("storage_bucket", "")
	v.SetDefault("storage_region", "us-east-1")
	v.SetDefault("storage_endpoint", "")
	v.SetDefault("storage_public_base_url", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("orphan_cleanup_enabled", true)
	v.SetDefault("orphan_cleanup_schedule", "0 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Log: Log{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
		Seed: Seed{
			Enabled: v.GetBool("SEED_ENABLED"),
		},
		Translation: Translation{
			APIKey:  v.GetString("TRANSLATION_API_KEY"),
			BaseURL: v.GetString("TRANSLATION_BASE_URL"),
			Model:   v.GetString("TRANSLATION_MODEL"),
			Timeout: v.GetDuration("TRANSLATION_TIMEOUT"),
		},
		Storage: Storage{
			Bucket:        v.GetString("STORAGE_BUCKET"),
			Region:        v.GetString("STORAGE_REGION"),
			Endpoint:      v.GetString("STORAGE_ENDPOINT"),
			PublicBaseURL: v.GetString("STORAGE_PUBLIC_BASE_URL"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Maintenance: Maintenance{
			OrphanCleanupEnabled:  v.GetBool("ORPHAN_CLEANUP_ENABLED"),
			OrphanCleanupSchedule: v.GetString("ORPHAN_CLEANUP_SCHEDULE"),
		},
	}
}
