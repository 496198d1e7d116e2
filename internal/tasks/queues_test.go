package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/storyshelf/internal/database/maintenance"
	"github.com/mrlokans/storyshelf/internal/translation"
)

type fakeWarmer struct {
	storyID  uint
	language string
	err      error
}

func (f *fakeWarmer) WarmStory(_ context.Context, storyID uint, language string) (translation.WarmResult, error) {
	f.storyID, f.language = storyID, language
	return translation.WarmResult{Requested: 3}, f.err
}

type fakeCleaner struct {
	calls int
	err   error
}

func (f *fakeCleaner) DeleteOrphans() (maintenance.Report, error) {
	f.calls++
	return maintenance.Report{Deleted: map[string]int64{"chapters": 2}}, f.err
}

func TestTranslateStoryTaskConfig(t *testing.T) {
	cfg := TranslateStoryTask{StoryID: 1, Language: "fr"}.Config()

	assert.Equal(t, "translate_story", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestTranslateStoryProcessor(t *testing.T) {
	warmer := &fakeWarmer{}
	process := TranslateStoryProcessor(warmer, nil)

	require.NoError(t, process(context.Background(), TranslateStoryTask{StoryID: 7, Language: "de"}))
	assert.Equal(t, uint(7), warmer.storyID)
	assert.Equal(t, "de", warmer.language)

	warmer.err = translation.ErrUnavailable
	err := process(context.Background(), TranslateStoryTask{StoryID: 7, Language: "de"})
	assert.ErrorIs(t, err, translation.ErrUnavailable)

	err = TranslateStoryProcessor(nil, nil)(context.Background(), TranslateStoryTask{})
	assert.Error(t, err)
}

func TestCleanupOrphansTaskConfig(t *testing.T) {
	cfg := CleanupOrphansTask{}.Config()

	assert.Equal(t, "cleanup_orphans", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
}

func TestCleanupOrphansProcessor(t *testing.T) {
	cleaner := &fakeCleaner{}
	process := CleanupOrphansProcessor(cleaner, nil)

	require.NoError(t, process(context.Background(), CleanupOrphansTask{}))
	assert.Equal(t, 1, cleaner.calls)

	cleaner.err = errors.New("database is locked")
	assert.Error(t, process(context.Background(), CleanupOrphansTask{}))

	assert.Error(t, CleanupOrphansProcessor(nil, nil)(context.Background(), CleanupOrphansTask{}))
}
