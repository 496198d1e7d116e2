// Package progress tracks a reader's position within a story.
//
// There is at most one ReadingProgress row per (user, story). RecordProgress
// writes it with a single INSERT ... ON CONFLICT DO UPDATE against the unique
// (user_id, story_id) index, so concurrent calls converge on one row.
//
// # Usage
//
//	repo := progress.NewRepository(db)
//	p, err := repo.RecordProgress(progress.Input{UserID: 1, StoryID: 2, Position: 120})
package progress

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// Repository handles reading progress database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Input describes one progress report. A nil ChapterID or Completed leaves the
// stored value unchanged when the row already exists.
type Input struct {
	UserID    uint
	StoryID   uint
	ChapterID *uint
	Position  int
	Completed *bool
}

// RecordProgress creates or updates the progress row for (UserID, StoryID).
func (r *Repository) RecordProgress(in Input) (*entities.ReadingProgress, error) {
	if in.Position < 0 {
		return nil, database.Invalidf("position must not be negative, got %d", in.Position)
	}
	if err := database.RequireRow(r.db, "users", in.UserID); err != nil {
		return nil, err
	}
	if err := database.RequireRow(r.db, "stories", in.StoryID); err != nil {
		return nil, err
	}
	if in.ChapterID != nil {
		var count int64
		err := r.db.Model(&entities.Chapter{}).
			Where("id = ? AND story_id = ?", *in.ChapterID, in.StoryID).
			Count(&count).Error
		if err != nil {
			return nil, database.Translate(err)
		}
		if count == 0 {
			return nil, database.Invalidf("chapter %d is not part of story %d", *in.ChapterID, in.StoryID)
		}
	}

	now := r.now()
	row := entities.ReadingProgress{
		UserID:     in.UserID,
		StoryID:    in.StoryID,
		ChapterID:  in.ChapterID,
		Position:   in.Position,
		LastReadAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	assign := []string{"position", "last_read_at", "updated_at"}
	if in.ChapterID != nil {
		assign = append(assign, "chapter_id")
	}
	if in.Completed != nil {
		row.IsCompleted = *in.Completed
		assign = append(assign, "is_completed")
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "story_id"}},
		DoUpdates: clause.AssignmentColumns(assign),
	}).Create(&row).Error
	if err != nil {
		return nil, database.Translate(err)
	}

	return r.GetProgress(in.UserID, in.StoryID)
}

// GetProgress returns the progress row for (userID, storyID) or ErrNotFound.
func (r *Repository) GetProgress(userID, storyID uint) (*entities.ReadingProgress, error) {
	var p entities.ReadingProgress
	err := r.db.Where("user_id = ? AND story_id = ?", userID, storyID).First(&p).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &p, nil
}

// ListProgressForUser returns the user's progress rows, most recently read first.
func (r *Repository) ListProgressForUser(userID uint, limit int) ([]entities.ReadingProgress, error) {
	var rows []entities.ReadingProgress
	query := r.db.Where("user_id = ?", userID).Order("last_read_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&rows).Error
	return rows, database.Translate(err)
}
