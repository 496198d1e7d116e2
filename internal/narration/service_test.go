package narration

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/database/audio"
	"github.com/mrlokans/storyshelf/internal/entities"
	"github.com/mrlokans/storyshelf/internal/storage"
)

type memoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) Upload(_ context.Context, key string, content io.ReadSeeker, _ string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

var _ storage.Client = (*memoryStore)(nil)

func setupTestDB(t *testing.T) (*gorm.DB, *entities.User, *entities.Story, func()) {
	db, err := database.Open(database.Options{
		Path:     filepath.Join(t.TempDir(), "narration.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)

	user := &entities.User{ExternalID: "ext", Username: "narrator", Email: "n@example.com"}
	require.NoError(t, db.DB.Create(user).Error)
	story := &entities.Story{Title: "Tale", AuthorID: user.ID}
	require.NoError(t, db.DB.Create(story).Error)
	return db.DB, user, story, func() { db.Close() }
}

func TestService_Publish(t *testing.T) {
	db, user, story, cleanup := setupTestDB(t)
	defer cleanup()

	store := newMemoryStore()
	svc := NewService(store, audio.NewRepository(db), nil)
	svc.now = func() time.Time { return time.Unix(0, 42) }

	rec, err := svc.Publish(context.Background(), Upload{
		UserID:    user.ID,
		StoryID:   story.ID,
		Title:     "My reading",
		Extension: "MP3",
		IsPublic:  true,
		Content:   strings.NewReader("audio-bytes"),
	})
	require.NoError(t, err)

	key := "recordings/1/1/42.mp3"
	assert.Equal(t, "https://cdn.example.com/"+key, rec.AudioURL)
	assert.Equal(t, []byte("audio-bytes"), store.objects[key])

	stored, err := audio.NewRepository(db).GetRecording(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.AudioURL, stored.AudioURL)
	assert.True(t, stored.IsPublic)
}

func TestService_Publish_RemovesObjectWhenRecordFails(t *testing.T) {
	db, user, _, cleanup := setupTestDB(t)
	defer cleanup()

	store := newMemoryStore()
	svc := NewService(store, audio.NewRepository(db), nil)

	_, err := svc.Publish(context.Background(), Upload{
		UserID:  user.ID,
		StoryID: 999,
		Content: strings.NewReader("audio-bytes"),
	})
	require.ErrorIs(t, err, database.ErrValidationFailed)
	assert.Empty(t, store.objects)
}

func TestService_Publish_UploadFailure(t *testing.T) {
	db, user, story, cleanup := setupTestDB(t)
	defer cleanup()

	store := newMemoryStore()
	store.uploadErr = errors.New("bucket unreachable")
	svc := NewService(store, audio.NewRepository(db), nil)

	_, err := svc.Publish(context.Background(), Upload{UserID: user.ID, StoryID: story.ID, Content: strings.NewReader("x")})
	require.Error(t, err)

	recs, err := audio.NewRepository(db).ListRecordingsByStory(story.ID, false)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestService_Publish_NotConfigured(t *testing.T) {
	db, user, story, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(nil, audio.NewRepository(db), nil)
	_, err := svc.Publish(context.Background(), Upload{UserID: user.ID, StoryID: story.ID, Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, ".mp3", normalizeExt(""))
	assert.Equal(t, ".ogg", normalizeExt("OGG"))
	assert.Equal(t, ".m4a", normalizeExt(".m4a"))
}
