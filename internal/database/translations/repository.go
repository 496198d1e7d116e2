// Package translations stores translated story and chapter text.
//
// Rows are keyed by (story, language, chapter) with a unique index; a story-level
// translation uses chapter key 0. Once stored, a translation is never replaced.
package translations

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// Key identifies one cached translation.
type Key struct {
	StoryID   uint
	Language  string
	ChapterID *uint
}

// Repository handles translation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new translations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetTranslation returns the stored translation for key or ErrNotFound.
func (r *Repository) GetTranslation(key Key) (*entities.Translation, error) {
	var t entities.Translation
	err := r.db.Where("story_id = ? AND language = ? AND chapter_key = ?",
		key.StoryID, key.Language, entities.ChapterKey(key.ChapterID)).
		First(&t).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &t, nil
}

// SaveTranslation inserts t unless a translation for the same key exists, and
// returns whichever row is stored. The first writer wins. The story must exist
// and the chapter, when given, must belong to it.
func (r *Repository) SaveTranslation(t *entities.Translation) (*entities.Translation, error) {
	if t.Language == "" {
		return nil, database.Invalidf("translation language is required")
	}
	if err := database.RequireRow(r.db, "stories", t.StoryID); err != nil {
		return nil, err
	}
	if t.ChapterID != nil {
		var count int64
		err := r.db.Model(&entities.Chapter{}).
			Where("id = ? AND story_id = ?", *t.ChapterID, t.StoryID).
			Count(&count).Error
		if err != nil {
			return nil, database.Translate(err)
		}
		if count == 0 {
			return nil, database.Invalidf("chapter %d does not belong to story %d", *t.ChapterID, t.StoryID)
		}
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "story_id"}, {Name: "language"}, {Name: "chapter_key"}},
		DoNothing: true,
	}).Create(t).Error
	if err != nil {
		return nil, database.Translate(err)
	}

	return r.GetTranslation(Key{StoryID: t.StoryID, Language: t.Language, ChapterID: t.ChapterID})
}

// ListTranslations returns every stored translation of a story.
func (r *Repository) ListTranslations(storyID uint) ([]entities.Translation, error) {
	var rows []entities.Translation
	err := r.db.Where("story_id = ?", storyID).
		Order("language ASC, chapter_key ASC").
		Find(&rows).Error
	return rows, database.Translate(err)
}
