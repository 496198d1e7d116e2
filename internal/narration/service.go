// Package narration publishes user-recorded narrations: the audio goes to object
// storage and only the resulting URL is stored as an AudioRecording.
package narration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/database/audio"
	"github.com/mrlokans/storyshelf/internal/entities"
	"github.com/mrlokans/storyshelf/internal/storage"
)

// Upload is one narration to publish.
type Upload struct {
	UserID          uint
	StoryID         uint
	ChapterID       *uint
	Title           string
	Language        string
	DurationSeconds int
	IsPublic        bool
	Extension       string // e.g. ".mp3"
	Content         io.ReadSeeker
}

type Service struct {
	store storage.Client
	audio *audio.Repository
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a narration service. store may be nil when object storage
// is not configured; Publish then fails with storage.ErrNotConfigured.
func NewService(store storage.Client, repo *audio.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, audio: repo, log: log, now: time.Now}
}

// Publish uploads the audio and records it. If the record cannot be written the
// uploaded object is removed again.
func (s *Service) Publish(ctx context.Context, up Upload) (*entities.AudioRecording, error) {
	if s.store == nil {
		return nil, storage.ErrNotConfigured
	}
	if up.Content == nil {
		return nil, database.Invalidf("narration audio is required")
	}

	ext := normalizeExt(up.Extension)
	key := fmt.Sprintf("recordings/%d/%d/%d%s", up.UserID, up.StoryID, s.now().UnixNano(), ext)

	url, err := s.store.Upload(ctx, key, up.Content, storage.ContentTypeFor(ext))
	if err != nil {
		s.log.Error("narration upload failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	rec := &entities.AudioRecording{
		UserID:          up.UserID,
		StoryID:         up.StoryID,
		ChapterID:       up.ChapterID,
		Title:           up.Title,
		Language:        up.Language,
		AudioURL:        url,
		DurationSeconds: up.DurationSeconds,
		IsPublic:        up.IsPublic,
	}
	if err := s.audio.CreateRecording(rec); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("failed to remove orphaned narration object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.log.Info("narration published",
		zap.Uint("recording_id", rec.ID),
		zap.Uint("user_id", rec.UserID),
		zap.Uint("story_id", rec.StoryID))
	return rec, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ".mp3"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
