package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/storyshelf/internal/config"
	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/database/audio"
	"github.com/mrlokans/storyshelf/internal/database/engagement"
	"github.com/mrlokans/storyshelf/internal/database/maintenance"
	"github.com/mrlokans/storyshelf/internal/database/progress"
	"github.com/mrlokans/storyshelf/internal/database/stats"
	"github.com/mrlokans/storyshelf/internal/database/stories"
	"github.com/mrlokans/storyshelf/internal/database/translations"
	"github.com/mrlokans/storyshelf/internal/database/users"
	http_controllers "github.com/mrlokans/storyshelf/internal/http"
	"github.com/mrlokans/storyshelf/internal/logger"
	"github.com/mrlokans/storyshelf/internal/narration"
	"github.com/mrlokans/storyshelf/internal/scheduler"
	"github.com/mrlokans/storyshelf/internal/seed"
	"github.com/mrlokans/storyshelf/internal/storage"
	"github.com/mrlokans/storyshelf/internal/tasks"
	"github.com/mrlokans/storyshelf/internal/translation"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// NewLogger builds the process logger from the application config.
func NewLogger(cfg *config.Config) *zap.Logger {
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return log
}

func Serve(router *gin.Engine, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener so in-flight tasks can finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown failed", zap.Error(err))
	}

	log.Info("server exiting")
}

// Seed runs the demo-content seeder once and exits.
func Seed(cfg *config.Config) error {
	log := NewLogger(cfg)
	defer log.Sync()

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	seeder, err := seed.New(db.DB, log.Named("seed"))
	if err != nil {
		return err
	}
	_, err = seeder.Run(context.Background())
	return err
}

func Run(cfg *config.Config, version string) {
	log := NewLogger(cfg)
	defer log.Sync()

	log.Info("starting storyshelf", zap.String("version", version), zap.String("database_driver", cfg.Database.Driver))

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	if cfg.Seed.Enabled {
		seeder, err := seed.New(db.DB, log.Named("seed"))
		if err != nil {
			log.Fatal("failed to load seed dataset", zap.Error(err))
		}
		if _, err := seeder.Run(context.Background()); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	}

	storyRepo := stories.NewRepository(db.DB)
	audioRepo := audio.NewRepository(db.DB)
	cleaner := maintenance.NewRepository(db.DB)

	translator := translation.NewOpenAITranslator(cfg.Translation)
	if !translator.Configured() {
		log.Warn("translation API key is not set; uncached translations will answer 503. Set TRANSLATION_API_KEY to enable.")
	}
	cache := translation.NewCache(
		translations.NewRepository(db.DB),
		storyRepo,
		translator,
		cfg.Translation.Timeout,
		log.Named("translation"),
	)

	// Keep the interface nil (not a typed nil) when storage is off.
	var objectStore storage.Client
	s3Client, err := storage.NewS3Client(cfg.Storage)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("audio storage bucket is not set; recording uploads are disabled. Set STORAGE_BUCKET to enable.")
	case err != nil:
		log.Fatal("failed to initialize audio storage", zap.Error(err))
	default:
		objectStore = s3Client
	}
	publisher := narration.NewService(objectStore, audioRepo, log.Named("narration"))

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var cleanupScheduler *scheduler.OrphanCleanupScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromAppConfig(cfg.Tasks), log)
		if err != nil {
			log.Fatal("failed to initialize task queue", zap.Error(err))
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(
			tasks.NewTranslateStoryQueue(cache, log),
			tasks.NewCleanupOrphansQueue(cleaner, log),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		cleanupScheduler = scheduler.NewOrphanCleanupScheduler(taskClient, cfg.Maintenance, log)
		if err := cleanupScheduler.Start(taskCtx); err != nil {
			log.Fatal("failed to start orphan cleanup scheduler", zap.Error(err))
		}
	} else if cfg.Maintenance.OrphanCleanupEnabled {
		log.Warn("task queue disabled; scheduled orphan cleanup will not run")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:             db,
		Logger:               log.Named("http"),
		Version:              version,
		Users:                users.NewRepository(db.DB),
		Stories:              storyRepo,
		Progress:             progress.NewRepository(db.DB),
		Engagement:           engagement.NewRepository(db.DB),
		Stats:                stats.NewRepository(db.DB),
		Audio:                audioRepo,
		Translations:         cache,
		Cleaner:              cleaner,
		Publisher:            publisher,
		TranslatorConfigured: translator.Configured(),
		StorageConfigured:    objectStore != nil,
	}
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, log, onShutdown)
}
