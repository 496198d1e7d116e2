package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/storyshelf/internal/translation"
)

// StoryWarmer translates a story body and all of its chapters.
type StoryWarmer interface {
	WarmStory(ctx context.Context, storyID uint, language string) (translation.WarmResult, error)
}

// TranslateStoryTask fills the translation cache for one story and language.
type TranslateStoryTask struct {
	StoryID  uint   `json:"story_id"`
	Language string `json:"language"`
}

// Config returns the queue configuration for translation warm-up tasks.
func (t TranslateStoryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "translate_story",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// TranslateStoryProcessor creates a processor function for TranslateStoryTask.
// Already cached parts are skipped, so retries only redo what failed.
func TranslateStoryProcessor(warmer StoryWarmer, log *zap.Logger) backlite.QueueProcessor[TranslateStoryTask] {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx context.Context, task TranslateStoryTask) error {
		if warmer == nil {
			return fmt.Errorf("translation cache not configured")
		}

		res, err := warmer.WarmStory(ctx, task.StoryID, task.Language)
		if err != nil {
			return fmt.Errorf("translate story %d to %s: %w", task.StoryID, task.Language, err)
		}

		log.Info("story translated",
			zap.Uint("story_id", task.StoryID),
			zap.String("language", task.Language),
			zap.Int("parts", res.Requested))
		return nil
	}
}

// NewTranslateStoryQueue creates a backlite queue for translation warm-up tasks.
func NewTranslateStoryQueue(warmer StoryWarmer, log *zap.Logger) backlite.Queue {
	return backlite.NewQueue(TranslateStoryProcessor(warmer, log))
}
