package translation

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/database/stories"
	"github.com/mrlokans/storyshelf/internal/database/translations"
	"github.com/mrlokans/storyshelf/internal/entities"
)

type countingTranslator struct {
	calls atomic.Int32
	fn    TranslatorFunc
}

func (c *countingTranslator) Translate(ctx context.Context, text, lang string) (string, error) {
	c.calls.Add(1)
	return c.fn(ctx, text, lang)
}

func returning(text string) *countingTranslator {
	return &countingTranslator{fn: func(context.Context, string, string) (string, error) {
		return text, nil
	}}
}

func setupTestDB(t *testing.T) (*gorm.DB, *entities.Story, func()) {
	db, err := database.Open(database.Options{
		Path:     filepath.Join(t.TempDir(), "cache.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)

	author := &entities.User{ExternalID: "ext-1", Username: "author", Email: "author@example.com"}
	require.NoError(t, db.DB.Create(author).Error)
	story := &entities.Story{Title: "Greeting", Content: "Hello", AuthorID: author.ID, Language: "en"}
	require.NoError(t, db.DB.Create(story).Error)

	return db.DB, story, func() { db.Close() }
}

func newCache(db *gorm.DB, tr Translator, timeout time.Duration) *Cache {
	return NewCache(translations.NewRepository(db), stories.NewRepository(db), tr, timeout, nil)
}

func countTranslations(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&entities.Translation{}).Count(&n).Error)
	return n
}

func TestCache_GetOrCreateTranslation_CallsTranslatorOnce(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	stub := returning("Bonjour")
	cache := newCache(db, stub, time.Second)
	req := Request{StoryID: story.ID, Language: "fr", SourceText: "Hello"}

	first, err := cache.GetOrCreateTranslation(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", first.TranslatedText)

	second, err := cache.GetOrCreateTranslation(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Bonjour", second.TranslatedText)

	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, int64(1), countTranslations(t, db))
}

func TestCache_GetOrCreateTranslation_ChapterKeyedSeparately(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	chapter := &entities.Chapter{StoryID: story.ID, ChapterNumber: 1, Content: "Once"}
	require.NoError(t, db.Create(chapter).Error)

	stub := returning("Il était une fois")
	cache := newCache(db, stub, time.Second)

	_, err := cache.GetOrCreateTranslation(context.Background(), Request{StoryID: story.ID, Language: "fr", SourceText: "Hello"})
	require.NoError(t, err)
	_, err = cache.GetOrCreateTranslation(context.Background(), Request{StoryID: story.ID, ChapterID: &chapter.ID, Language: "fr", SourceText: "Once"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), stub.calls.Load())
	assert.Equal(t, int64(2), countTranslations(t, db))
}

func TestCache_GetOrCreateTranslation_RejectsInvalidTargetWithoutTranslating(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	other := &entities.Story{Title: "Other", Content: "Other", AuthorID: story.AuthorID, Language: "en"}
	require.NoError(t, db.Create(other).Error)
	foreign := &entities.Chapter{StoryID: other.ID, ChapterNumber: 1, Content: "Elsewhere"}
	require.NoError(t, db.Create(foreign).Error)
	missingChapter := uint(9999)

	tests := []struct {
		name string
		req  Request
	}{
		{"chapter of another story", Request{StoryID: story.ID, ChapterID: &foreign.ID, Language: "fr", SourceText: "Elsewhere"}},
		{"unknown chapter", Request{StoryID: story.ID, ChapterID: &missingChapter, Language: "fr", SourceText: "Hello"}},
		{"unknown story", Request{StoryID: 4242, Language: "fr", SourceText: "Hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := returning("Bonjour")
			cache := newCache(db, stub, time.Second)

			_, err := cache.GetOrCreateTranslation(context.Background(), tt.req)
			require.ErrorIs(t, err, database.ErrValidationFailed)
			assert.Equal(t, int32(0), stub.calls.Load())
		})
	}
	assert.Equal(t, int64(0), countTranslations(t, db))
}

func TestCache_GetOrCreateTranslation_FailureStoresNothing(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	failing := &countingTranslator{fn: func(context.Context, string, string) (string, error) {
		return "", errors.New("connection refused")
	}}
	cache := newCache(db, failing, time.Second)

	_, err := cache.GetOrCreateTranslation(context.Background(), Request{StoryID: story.ID, Language: "fr", SourceText: "Hello"})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int64(0), countTranslations(t, db))

	// A later success is stored normally.
	cache = newCache(db, returning("Bonjour"), time.Second)
	got, err := cache.GetOrCreateTranslation(context.Background(), Request{StoryID: story.ID, Language: "fr", SourceText: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", got.TranslatedText)
}

func TestCache_GetOrCreateTranslation_Timeout(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	slow := &countingTranslator{fn: func(ctx context.Context, _, _ string) (string, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}}
	cache := newCache(db, slow, 50*time.Millisecond)

	start := time.Now()
	_, err := cache.GetOrCreateTranslation(context.Background(), Request{StoryID: story.ID, Language: "fr", SourceText: "Hello"})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, int64(0), countTranslations(t, db))
}

func TestCache_GetOrCreateTranslation_EmptyResult(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	cache := newCache(db, returning("   "), time.Second)
	_, err := cache.GetOrCreateTranslation(context.Background(), Request{StoryID: story.ID, Language: "fr", SourceText: "Hello"})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int64(0), countTranslations(t, db))
}

func TestCache_GetOrCreateTranslation_NoTranslator(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	cache := newCache(db, nil, time.Second)
	_, err := cache.GetOrCreateTranslation(context.Background(), Request{StoryID: story.ID, Language: "fr", SourceText: "Hello"})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCache_GetOrCreateTranslation_InvalidLanguage(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	stub := returning("x")
	cache := newCache(db, stub, time.Second)
	_, err := cache.GetOrCreateTranslation(context.Background(), Request{StoryID: story.ID, Language: "not a language", SourceText: "Hello"})
	require.ErrorIs(t, err, database.ErrValidationFailed)
	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestCache_GetTranslation(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	cache := newCache(db, returning("Hola"), time.Second)
	_, err := cache.GetTranslation(story.ID, "es", nil)
	require.ErrorIs(t, err, database.ErrNotFound)

	_, err = cache.GetOrCreateTranslation(context.Background(), Request{StoryID: story.ID, Language: "es", SourceText: "Hello"})
	require.NoError(t, err)

	got, err := cache.GetTranslation(story.ID, "es", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hola", got.TranslatedText)
}

func TestCache_WarmStory(t *testing.T) {
	db, story, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 1; i <= 2; i++ {
		require.NoError(t, db.Create(&entities.Chapter{StoryID: story.ID, ChapterNumber: i, Content: "text"}).Error)
	}
	// Chapters without content are skipped.
	require.NoError(t, db.Create(&entities.Chapter{StoryID: story.ID, ChapterNumber: 3}).Error)

	stub := returning("texte")
	cache := newCache(db, stub, time.Second)

	res, err := cache.WarmStory(context.Background(), story.ID, "fr")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, int32(3), stub.calls.Load())

	// Second run is served entirely from the cache.
	_, err = cache.WarmStory(context.Background(), story.ID, "fr")
	require.NoError(t, err)
	assert.Equal(t, int32(3), stub.calls.Load())

	var stored []entities.Translation
	require.NoError(t, db.Find(&stored).Error)
	for _, tr := range stored {
		assert.Equal(t, "en", tr.SourceLanguage)
	}
}

func TestCache_WarmStory_MissingStory(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	cache := newCache(db, returning("x"), time.Second)
	_, err := cache.WarmStory(context.Background(), 4242, "fr")
	require.ErrorIs(t, err, database.ErrNotFound)
}
