package stories

import (
	"strings"
	"time"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// ChapterUpdate holds the editable chapter fields; nil fields are left alone.
type ChapterUpdate struct {
	Title         *string
	Content       *string
	ChapterNumber *int
}

// CreateChapter inserts a chapter into an existing story. Chapter numbers start
// at 1 and are unique per story (a clash returns ErrDuplicateKey). The parent
// story's ChapterCount is not touched; see RefreshChapterCount.
func (r *Repository) CreateChapter(chapter *entities.Chapter) error {
	if chapter.ChapterNumber < 1 {
		return database.Invalidf("chapter number must be at least 1, got %d", chapter.ChapterNumber)
	}
	if err := database.RequireRow(r.db, "stories", chapter.StoryID); err != nil {
		return err
	}
	if chapter.WordCount == 0 {
		chapter.WordCount = len(strings.Fields(chapter.Content))
	}
	return database.Translate(r.db.Create(chapter).Error)
}

// GetChapter retrieves a chapter by ID.
func (r *Repository) GetChapter(id uint) (*entities.Chapter, error) {
	var chapter entities.Chapter
	if err := r.db.First(&chapter, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &chapter, nil
}

// ListChapters returns the chapters of a story in reading order.
func (r *Repository) ListChapters(storyID uint) ([]entities.Chapter, error) {
	var chapters []entities.Chapter
	err := r.db.Where("story_id = ?", storyID).
		Order("chapter_number ASC").
		Find(&chapters).Error
	return chapters, database.Translate(err)
}

// UpdateChapter applies a partial update. Changing the content recomputes the word count.
func (r *Repository) UpdateChapter(id uint, update ChapterUpdate) (*entities.Chapter, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Content != nil {
		updates["content"] = *update.Content
		updates["word_count"] = len(strings.Fields(*update.Content))
	}
	if update.ChapterNumber != nil {
		if *update.ChapterNumber < 1 {
			return nil, database.Invalidf("chapter number must be at least 1, got %d", *update.ChapterNumber)
		}
		updates["chapter_number"] = *update.ChapterNumber
	}

	result := r.db.Model(&entities.Chapter{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetChapter(id)
}

// DeleteChapter removes a chapter and reports whether it existed.
func (r *Repository) DeleteChapter(id uint) (bool, error) {
	result := r.db.Delete(&entities.Chapter{}, id)
	if result.Error != nil {
		return false, database.Translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ChapterBelongsTo reports whether the chapter exists and is part of the story.
func (r *Repository) ChapterBelongsTo(chapterID, storyID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Chapter{}).
		Where("id = ? AND story_id = ?", chapterID, storyID).
		Count(&count).Error
	return count > 0, database.Translate(err)
}
