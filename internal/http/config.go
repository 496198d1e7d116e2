package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/tasks"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database *database.Database
	Logger   *zap.Logger
	Version  string

	Users        UserStore
	Stories      StoryStore
	Progress     ProgressStore
	Engagement   EngagementStore
	Stats        StatsStore
	Audio        AudioStore
	Translations TranslationService
	Cleaner      tasks.OrphanCleaner

	// Publisher uploads user narrations. Uploads answer 503 when storage is
	// not configured.
	Publisher Publisher

	// TaskClient is optional; leave it nil (untyped) when the queue is disabled.
	TaskClient TaskClient

	// TranslatorConfigured and StorageConfigured are reported by /health.
	TranslatorConfigured bool
	StorageConfigured    bool
}
