package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/storyshelf/internal/entities"
	"github.com/mrlokans/storyshelf/internal/tasks"
	"github.com/mrlokans/storyshelf/internal/translation"
)

// TranslationService reads and fills the translation cache.
type TranslationService interface {
	GetTranslation(storyID uint, language string, chapterID *uint) (*entities.Translation, error)
	GetOrCreateTranslation(ctx context.Context, req translation.Request) (*entities.Translation, error)
	ListTranslations(storyID uint) ([]entities.Translation, error)
}

// TaskQueue enqueues background tasks.
type TaskQueue interface {
	Enqueue(queued ...backlite.Task) ([]string, error)
}

// StoryReader is the read side of StoryStore needed to find source text.
type StoryReader interface {
	GetStory(id uint) (*entities.Story, error)
	GetChapter(id uint) (*entities.Chapter, error)
}

type TranslationsController struct {
	service TranslationService
	stories StoryReader
	queue   TaskQueue
}

// NewTranslationsController creates the controller. queue may be nil, in
// which case warm requests answer 503.
func NewTranslationsController(service TranslationService, stories StoryReader, queue TaskQueue) *TranslationsController {
	return &TranslationsController{service: service, stories: stories, queue: queue}
}

// ListTranslations handles GET /api/stories/:id/translations
func (tc *TranslationsController) ListTranslations(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	list, err := tc.service.ListTranslations(storyID)
	if err != nil {
		respondError(c, err, "translations", "list translations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"translations": list})
}

// GetTranslation handles GET /api/stories/:id/translations/:lang?chapter_id=N&cached=true
// Without cached=true a missing translation is produced on the spot.
func (tc *TranslationsController) GetTranslation(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	chapterID, ok := parseOptionalQueryID(c, "chapter_id")
	if !ok {
		return
	}
	lang := c.Param("lang")

	if c.Query("cached") == "true" {
		t, err := tc.service.GetTranslation(storyID, lang, chapterID)
		if err != nil {
			respondError(c, err, "translation", "get translation")
			return
		}
		c.JSON(http.StatusOK, t)
		return
	}

	story, err := tc.stories.GetStory(storyID)
	if err != nil {
		respondError(c, err, "story", "get story")
		return
	}
	source := story.Content
	if chapterID != nil {
		chapter, err := tc.stories.GetChapter(*chapterID)
		if err != nil {
			respondError(c, err, "chapter", "get chapter")
			return
		}
		if chapter.StoryID != storyID {
			respondNotFound(c, "chapter")
			return
		}
		source = chapter.Content
	}
	if source == "" {
		respondBadRequest(c, "nothing to translate")
		return
	}

	t, err := tc.service.GetOrCreateTranslation(c.Request.Context(), translation.Request{
		StoryID:        storyID,
		ChapterID:      chapterID,
		Language:       lang,
		SourceLanguage: story.Language,
		SourceText:     source,
	})
	if err != nil {
		respondError(c, err, "translation", "translate")
		return
	}
	c.JSON(http.StatusOK, t)
}

// WarmStory handles POST /api/stories/:id/translations/:lang/warm
// Translating a whole story is slow, so it runs as a background task.
func (tc *TranslationsController) WarmStory(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lang, err := translation.NormalizeLanguage(c.Param("lang"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if tc.queue == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue unavailable", Code: "queue_unavailable"})
		return
	}
	if _, err := tc.stories.GetStory(storyID); err != nil {
		respondError(c, err, "story", "get story")
		return
	}

	ids, err := tc.queue.Enqueue(tasks.TranslateStoryTask{StoryID: storyID, Language: lang})
	if err != nil {
		respondInternalError(c, err, "enqueue translation")
		return
	}
	respondAccepted(c, "translation queued", gin.H{"task_id": ids[0], "language": lang})
}
