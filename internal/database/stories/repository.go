// Package stories provides database operations for stories and their chapters.
//
// # Usage
//
//	repo := stories.NewRepository(db)
//	published, err := repo.ListPublishedStories(stories.DefaultListLimit)
//	story, err := repo.CreateStoryWithChapters(story, chapters)
package stories

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// DefaultListLimit caps ListPublishedStories when no positive limit is given.
const DefaultListLimit = 50

// Repository handles all story and chapter database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new stories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StoryUpdate holds the client-editable story fields; nil fields are left alone.
// Read and like counters are deliberately absent.
type StoryUpdate struct {
	Title                *string
	Description          *string
	Content              *string
	CoverImageURL        *string
	Genre                *string
	Language             *string
	IsPublished          *bool
	IsDraft              *bool
	IsFeatured           *bool
	EstimatedReadMinutes *int
	Tags                 *[]string
}

// CreateStory inserts a story. The author must exist; counters always start at zero.
func (r *Repository) CreateStory(story *entities.Story) error {
	if err := r.prepareStory(story); err != nil {
		return err
	}
	return database.Translate(r.db.Omit("Author", "Chapters").Create(story).Error)
}

// CreateStoryWithChapters inserts a story and its chapters in one transaction.
// Either everything is committed or nothing is. ChapterCount reflects the inserted chapters.
func (r *Repository) CreateStoryWithChapters(story *entities.Story, chapters []entities.Chapter) (*entities.Story, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := NewRepository(tx)
		if err := txRepo.CreateStory(story); err != nil {
			return err
		}
		for i := range chapters {
			chapters[i].StoryID = story.ID
			if err := txRepo.CreateChapter(&chapters[i]); err != nil {
				return err
			}
		}
		story.ChapterCount = len(chapters)
		return database.Translate(tx.Model(story).UpdateColumn("chapter_count", story.ChapterCount).Error)
	})
	if err != nil {
		return nil, err
	}
	story.Chapters = chapters
	return story, nil
}

// GetStory retrieves a story by ID with its author.
func (r *Repository) GetStory(id uint) (*entities.Story, error) {
	var story entities.Story
	err := r.db.Preload("Author").First(&story, id).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &story, nil
}

// ListStoriesByAuthor returns all stories of an author, newest first.
func (r *Repository) ListStoriesByAuthor(authorID uint) ([]entities.Story, error) {
	var stories []entities.Story
	err := r.db.Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&stories).Error
	return stories, database.Translate(err)
}

// CountStoriesByAuthor returns the number of stories owned by an author.
func (r *Repository) CountStoriesByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Story{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, database.Translate(err)
}

// ListPublishedStories returns published stories, newest first.
func (r *Repository) ListPublishedStories(limit int) ([]entities.Story, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var stories []entities.Story
	err := r.db.Preload("Author").
		Where("is_published = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&stories).Error
	return stories, database.Translate(err)
}

// ListFeaturedStories returns stories that are both published and featured,
// most read first.
func (r *Repository) ListFeaturedStories() ([]entities.Story, error) {
	var stories []entities.Story
	err := r.db.Preload("Author").
		Where("is_published = ? AND is_featured = ?", true, true).
		Order("read_count DESC, id ASC").
		Find(&stories).Error
	return stories, database.Translate(err)
}

// SearchStories matches published stories whose title contains query, ignoring case.
func (r *Repository) SearchStories(query string) ([]entities.Story, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entities.Story{}, nil
	}
	var stories []entities.Story
	err := r.db.Preload("Author").
		Where("is_published = ?", true).
		Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, "%"+likeEscaper.Replace(query)+"%").
		Order("created_at DESC, id DESC").
		Find(&stories).Error
	return stories, database.Translate(err)
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// UpdateStory applies a partial update. The update timestamp is always refreshed.
func (r *Repository) UpdateStory(id uint, update StoryUpdate) (*entities.Story, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, database.Invalidf("story title is required")
		}
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Content != nil {
		updates["content"] = *update.Content
	}
	if update.CoverImageURL != nil {
		updates["cover_image_url"] = *update.CoverImageURL
	}
	if update.Genre != nil {
		updates["genre"] = *update.Genre
	}
	if update.Language != nil {
		updates["language"] = *update.Language
	}
	if update.IsPublished != nil {
		updates["is_published"] = *update.IsPublished
	}
	if update.IsDraft != nil {
		updates["is_draft"] = *update.IsDraft
	}
	if update.IsFeatured != nil {
		updates["is_featured"] = *update.IsFeatured
	}
	if update.EstimatedReadMinutes != nil {
		updates["estimated_read_minutes"] = *update.EstimatedReadMinutes
	}
	if update.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](*update.Tags)
	}

	result := r.db.Model(&entities.Story{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetStory(id)
}

// DeleteStory removes the story row only and reports whether it existed.
// Dependent rows are left for the orphan cleanup.
func (r *Repository) DeleteStory(id uint) (bool, error) {
	result := r.db.Delete(&entities.Story{}, id)
	if result.Error != nil {
		return false, database.Translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// IncrementReadCount bumps the read counter by one.
func (r *Repository) IncrementReadCount(id uint) error {
	result := r.db.Model(&entities.Story{}).Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + ?", 1))
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// RefreshChapterCount recomputes ChapterCount from the chapters table.
func (r *Repository) RefreshChapterCount(storyID uint) (int, error) {
	var count int64
	if err := r.db.Model(&entities.Chapter{}).Where("story_id = ?", storyID).Count(&count).Error; err != nil {
		return 0, database.Translate(err)
	}
	result := r.db.Model(&entities.Story{}).Where("id = ?", storyID).UpdateColumn("chapter_count", count)
	if result.Error != nil {
		return 0, database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, database.ErrNotFound
	}
	return int(count), nil
}

// CountStories returns the total number of stories.
func (r *Repository) CountStories() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Story{}).Count(&count).Error
	return count, database.Translate(err)
}

func (r *Repository) prepareStory(story *entities.Story) error {
	if strings.TrimSpace(story.Title) == "" {
		return database.Invalidf("story title is required")
	}
	if err := database.RequireRow(r.db, "users", story.AuthorID); err != nil {
		return err
	}
	story.ReadCount = 0
	story.LikeCount = 0
	story.ChapterCount = 0
	if story.EstimatedReadMinutes == 0 && story.Content != "" {
		story.EstimatedReadMinutes = EstimateReadMinutes(story.Content)
	}
	return nil
}

// EstimateReadMinutes approximates reading time at 200 words per minute, rounding up.
func EstimateReadMinutes(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + 199) / 200
}
