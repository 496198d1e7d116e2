// Package stats computes derived author counts from the content and edge tables.
package stats

import (
	"gorm.io/gorm"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/database/engagement"
	"github.com/mrlokans/storyshelf/internal/database/stories"
)

// AuthorStats are recomputed on every read; nothing here is stored.
type AuthorStats struct {
	AuthorID      uint  `json:"author_id"`
	StoryCount    int64 `json:"story_count"`
	LikeCount     int64 `json:"like_count"`
	FollowerCount int64 `json:"follower_count"`
}

type Repository struct {
	db         *gorm.DB
	stories    *stories.Repository
	engagement *engagement.Repository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		stories:    stories.NewRepository(db),
		engagement: engagement.NewRepository(db),
	}
}

// GetAuthorStats returns ErrNotFound when the author does not exist.
func (r *Repository) GetAuthorStats(authorID uint) (*AuthorStats, error) {
	var exists int64
	if err := r.db.Table("users").Where("id = ?", authorID).Count(&exists).Error; err != nil {
		return nil, database.Translate(err)
	}
	if exists == 0 {
		return nil, database.ErrNotFound
	}

	stats := &AuthorStats{AuthorID: authorID}
	var err error
	if stats.StoryCount, err = r.stories.CountStoriesByAuthor(authorID); err != nil {
		return nil, err
	}
	if stats.LikeCount, err = r.engagement.AuthorLikeCount(authorID); err != nil {
		return nil, err
	}
	if stats.FollowerCount, err = r.engagement.AuthorFollowerCount(authorID); err != nil {
		return nil, err
	}
	return stats, nil
}
