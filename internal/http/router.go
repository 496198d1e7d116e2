package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Everything under /api except identity sync requires the caller identity
// header; /health and /ping stay open for probes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version, map[string]bool{
		"translator": cfg.TranslatorConfigured,
		"storage":    cfg.StorageConfigured,
		"tasks":      cfg.TaskClient != nil,
	})
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	users := NewUsersController(cfg.Users)
	// Identity sync is how a caller obtains its id, so it cannot require one.
	router.POST("/api/users/sync", users.SyncUser)

	api := router.Group("/api")
	api.Use(IdentityMiddleware())

	stories := NewStoriesController(cfg.Stories)
	progress := NewProgressController(cfg.Progress)
	engagement := NewEngagementController(cfg.Engagement)
	stats := NewStatsController(cfg.Stats)
	audio := NewAudioController(cfg.Audio, cfg.Publisher)
	var queue TaskQueue
	if cfg.TaskClient != nil {
		queue = cfg.TaskClient
	}
	translations := NewTranslationsController(cfg.Translations, cfg.Stories, queue)
	taskCtl := NewTasksController(cfg.TaskClient, cfg.Cleaner)

	// Users
	api.GET("/users/lookup", users.LookupUser)
	api.GET("/users/:id", users.GetUser)
	api.GET("/me", users.GetMe)
	api.PATCH("/me", users.UpdateMe)
	api.POST("/me/onboarding", users.CompleteOnboarding)

	// Stories
	api.GET("/stories", stories.ListPublished)
	api.POST("/stories", stories.CreateStory)
	api.GET("/stories/featured", stories.ListFeatured)
	api.GET("/stories/search", stories.Search)
	api.GET("/stories/:id", stories.GetStory)
	api.PATCH("/stories/:id", stories.UpdateStory)
	api.DELETE("/stories/:id", stories.DeleteStory)
	api.POST("/stories/:id/read", stories.MarkRead)
	api.GET("/authors/:id/stories", stories.ListByAuthor)

	// Chapters
	api.GET("/stories/:id/chapters", stories.ListChapters)
	api.POST("/stories/:id/chapters", stories.CreateChapter)
	api.GET("/chapters/:id", stories.GetChapter)
	api.PATCH("/chapters/:id", stories.UpdateChapter)
	api.DELETE("/chapters/:id", stories.DeleteChapter)

	// Reading progress
	api.PUT("/stories/:id/progress", progress.RecordProgress)
	api.GET("/stories/:id/progress", progress.GetProgress)
	api.GET("/me/progress", progress.ListMine)

	// Story relationships
	registerToggle(api, "/stories/:id/library", engagement.Library())
	registerToggle(api, "/stories/:id/like", engagement.StoryLike())
	registerToggle(api, "/stories/:id/favorite", engagement.StoryFavorite())
	api.GET("/stories/:id/likes/count", engagement.StoryLikeCount)

	// Author relationships
	registerToggle(api, "/authors/:id/follow", engagement.Follow())
	registerToggle(api, "/authors/:id/like", engagement.AuthorLike())
	registerToggle(api, "/authors/:id/favorite", engagement.AuthorFavorite())
	registerToggle(api, "/authors/:id/library", engagement.AuthorLibrary())
	api.GET("/authors/:id/likes/count", engagement.AuthorLikeCount)
	api.GET("/authors/:id/followers", engagement.ListFollowers)
	api.GET("/authors/:id/followers/count", engagement.AuthorFollowerCount)
	api.GET("/authors/:id/stats", stats.AuthorStats)

	// Subscriptions
	registerToggle(api, "/users/:id/subscription", engagement.Subscription())
	api.GET("/users/:id/subscribers", engagement.ListSubscribers)

	// Current user's lists
	api.GET("/me/stories/:list", engagement.MyStories)
	api.GET("/me/authors/:list", engagement.MyAuthors)

	// Featured authors
	api.GET("/featured-authors", engagement.ListFeaturedAuthors)
	api.POST("/featured-authors", engagement.AddFeaturedAuthor)
	api.DELETE("/featured-authors/:id", engagement.RemoveFeaturedAuthor)

	// Translations
	api.GET("/stories/:id/translations", translations.ListTranslations)
	api.GET("/stories/:id/translations/:lang", translations.GetTranslation)
	api.POST("/stories/:id/translations/:lang/warm", translations.WarmStory)

	// Audiobooks
	api.GET("/stories/:id/audiobooks", audio.ListAudiobooks)
	api.POST("/stories/:id/audiobooks", audio.CreateAudiobook)
	api.GET("/stories/:id/audiobooks/:lang", audio.GetAudiobook)

	// Recordings
	api.POST("/stories/:id/recordings", audio.UploadRecording)
	api.GET("/stories/:id/recordings", audio.ListStoryRecordings)
	api.GET("/chapters/:id/recordings", audio.ListChapterRecordings)
	api.GET("/users/:id/recordings", audio.ListUserRecordings)
	api.GET("/me/recordings", audio.ListMyRecordings)
	api.GET("/recordings/featured", audio.ListFeaturedRecordings)
	api.GET("/recordings/:id", audio.GetRecording)
	api.PATCH("/recordings/:id", audio.UpdateRecording)
	api.DELETE("/recordings/:id", audio.DeleteRecording)
	api.POST("/recordings/:id/play", audio.PlayRecording)
	registerToggle(api, "/recordings/:id/like", engagement.RecordingLike())
	api.GET("/recordings/:id/likes/count", engagement.RecordingLikeCount)

	// Background tasks and maintenance
	api.GET("/tasks/types", taskCtl.ListTaskTypes)
	api.GET("/tasks/:id", taskCtl.GetTaskStatus)
	api.POST("/tasks/:type/run", taskCtl.RunTask)
	api.POST("/admin/cleanup", taskCtl.RunCleanup)

	return router
}

func registerToggle(group *gin.RouterGroup, path string, t Toggle) {
	group.GET(path, t.Check)
	group.PUT(path, t.Add)
	group.DELETE(path, t.Remove)
}
