// Package audio stores references to narrations of stories and chapters.
//
// Audiobooks are system narrations keyed by (story, language, chapter); looking one
// up never creates it. AudioRecordings are uploaded by users. Neither table holds
// audio bytes, only the storage URL.
package audio

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// Repository handles audiobook and audio recording database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new audio repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAudiobook returns the narration for (story, language, chapter) or ErrNotFound.
func (r *Repository) GetAudiobook(storyID uint, language string, chapterID *uint) (*entities.Audiobook, error) {
	var book entities.Audiobook
	err := r.db.Where("story_id = ? AND language = ? AND chapter_key = ?",
		storyID, language, entities.ChapterKey(chapterID)).
		First(&book).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &book, nil
}

// CreateAudiobook stores a narration reference. A second narration for the same
// key fails with ErrDuplicateKey.
func (r *Repository) CreateAudiobook(book *entities.Audiobook) error {
	if book.Language == "" {
		return database.Invalidf("audiobook language is required")
	}
	if strings.TrimSpace(book.AudioURL) == "" {
		return database.Invalidf("audiobook audio url is required")
	}
	if book.DurationSeconds < 0 {
		return database.Invalidf("audiobook duration must not be negative")
	}
	if err := r.requireStoryChapter(book.StoryID, book.ChapterID); err != nil {
		return err
	}
	return database.Translate(r.db.Create(book).Error)
}

// ListAudiobooks returns every narration of a story.
func (r *Repository) ListAudiobooks(storyID uint) ([]entities.Audiobook, error) {
	var books []entities.Audiobook
	err := r.db.Where("story_id = ?", storyID).
		Order("language ASC, chapter_key ASC").
		Find(&books).Error
	return books, database.Translate(err)
}

// RecordingUpdate holds the editable recording fields; nil fields are left alone.
type RecordingUpdate struct {
	Title           *string
	Language        *string
	DurationSeconds *int
	IsPublic        *bool
	IsFeatured      *bool
}

// CreateRecording stores a user narration. User and story must exist, and the
// chapter, when given, must belong to the story.
func (r *Repository) CreateRecording(rec *entities.AudioRecording) error {
	if strings.TrimSpace(rec.AudioURL) == "" {
		return database.Invalidf("recording audio url is required")
	}
	if rec.DurationSeconds < 0 {
		return database.Invalidf("recording duration must not be negative")
	}
	if err := database.RequireRow(r.db, "users", rec.UserID); err != nil {
		return err
	}
	if err := r.requireStoryChapter(rec.StoryID, rec.ChapterID); err != nil {
		return err
	}
	rec.PlayCount = 0
	rec.LikeCount = 0
	return database.Translate(r.db.Create(rec).Error)
}

// GetRecording returns a recording by id.
func (r *Repository) GetRecording(id uint) (*entities.AudioRecording, error) {
	var rec entities.AudioRecording
	if err := r.db.First(&rec, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &rec, nil
}

// UpdateRecording applies a partial update and returns the stored row.
func (r *Repository) UpdateRecording(id uint, update RecordingUpdate) (*entities.AudioRecording, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Language != nil {
		if *update.Language == "" {
			return nil, database.Invalidf("recording language must not be empty")
		}
		updates["language"] = *update.Language
	}
	if update.DurationSeconds != nil {
		if *update.DurationSeconds < 0 {
			return nil, database.Invalidf("recording duration must not be negative")
		}
		updates["duration_seconds"] = *update.DurationSeconds
	}
	if update.IsPublic != nil {
		updates["is_public"] = *update.IsPublic
	}
	if update.IsFeatured != nil {
		updates["is_featured"] = *update.IsFeatured
	}

	result := r.db.Model(&entities.AudioRecording{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetRecording(id)
}

// DeleteRecording removes a recording and reports whether it existed.
func (r *Repository) DeleteRecording(id uint) (bool, error) {
	result := r.db.Delete(&entities.AudioRecording{}, id)
	if result.Error != nil {
		return false, database.Translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListRecordingsByUser returns a user's recordings, newest first.
func (r *Repository) ListRecordingsByUser(userID uint) ([]entities.AudioRecording, error) {
	return r.list(r.db.Where("user_id = ?", userID))
}

// ListRecordingsByStory returns recordings of a story, newest first. With
// publicOnly set, private recordings are excluded.
func (r *Repository) ListRecordingsByStory(storyID uint, publicOnly bool) ([]entities.AudioRecording, error) {
	q := r.db.Where("story_id = ?", storyID)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	return r.list(q)
}

// ListRecordingsByChapter returns recordings of a single chapter, newest first.
func (r *Repository) ListRecordingsByChapter(chapterID uint, publicOnly bool) ([]entities.AudioRecording, error) {
	q := r.db.Where("chapter_id = ?", chapterID)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	return r.list(q)
}

// ListFeaturedRecordings returns public featured recordings, most played first.
func (r *Repository) ListFeaturedRecordings(limit int) ([]entities.AudioRecording, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []entities.AudioRecording
	err := r.db.Where("is_public = ? AND is_featured = ?", true, true).
		Order("play_count DESC, id DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, database.Translate(err)
}

// IncrementPlayCount bumps the play counter by one.
func (r *Repository) IncrementPlayCount(id uint) error {
	result := r.db.Model(&entities.AudioRecording{}).Where("id = ?", id).
		UpdateColumn("play_count", gorm.Expr("play_count + ?", 1))
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *Repository) list(q *gorm.DB) ([]entities.AudioRecording, error) {
	var recs []entities.AudioRecording
	err := q.Order("created_at DESC, id DESC").Find(&recs).Error
	return recs, database.Translate(err)
}

func (r *Repository) requireStoryChapter(storyID uint, chapterID *uint) error {
	if err := database.RequireRow(r.db, "stories", storyID); err != nil {
		return err
	}
	if chapterID == nil {
		return nil
	}
	var count int64
	err := r.db.Model(&entities.Chapter{}).
		Where("id = ? AND story_id = ?", *chapterID, storyID).
		Count(&count).Error
	if err != nil {
		return database.Translate(err)
	}
	if count == 0 {
		return database.Invalidf("chapter %d does not belong to story %d", *chapterID, storyID)
	}
	return nil
}
