package engagement

import (
	"gorm.io/gorm"

	"github.com/mrlokans/storyshelf/internal/entities"
)

// AddToLibrary saves a story to the user's library. It reports whether a new edge was created.
func (r *Repository) AddToLibrary(userID, storyID uint) (bool, error) {
	_, created, err := r.library.Add(userID, storyID)
	return created, err
}

// RemoveFromLibrary reports whether the story was in the library.
func (r *Repository) RemoveFromLibrary(userID, storyID uint) (bool, error) {
	return r.library.Remove(userID, storyID)
}

// ListLibrary returns the user's library, most recently added first.
func (r *Repository) ListLibrary(userID uint) ([]entities.Story, error) {
	return r.library.ListObjects(userID)
}

func (r *Repository) IsInLibrary(userID, storyID uint) (bool, error) {
	return r.library.Has(userID, storyID)
}

// LikeStory records a like and bumps the story's LikeCount when the like is new.
func (r *Repository) LikeStory(userID, storyID uint) (bool, error) {
	var created bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		_, created, err = r.storyLikes.WithDB(tx).Add(userID, storyID)
		if err != nil || !created {
			return err
		}
		return adjustCounter(tx, "stories", "like_count", storyID, 1)
	})
	return created, err
}

// UnlikeStory removes a like and lowers the story's LikeCount when one was removed.
func (r *Repository) UnlikeStory(userID, storyID uint) (bool, error) {
	var removed bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = r.storyLikes.WithDB(tx).Remove(userID, storyID)
		if err != nil || !removed {
			return err
		}
		return adjustCounter(tx, "stories", "like_count", storyID, -1)
	})
	return removed, err
}

// StoryLikeCount counts like edges for a story.
func (r *Repository) StoryLikeCount(storyID uint) (int64, error) {
	return r.storyLikes.Count(storyID)
}

func (r *Repository) IsStoryLiked(userID, storyID uint) (bool, error) {
	return r.storyLikes.Has(userID, storyID)
}

// ListLikedStories returns stories the user liked, most recent first.
func (r *Repository) ListLikedStories(userID uint) ([]entities.Story, error) {
	return r.storyLikes.ListObjects(userID)
}

func (r *Repository) FavoriteStory(userID, storyID uint) (bool, error) {
	_, created, err := r.favoriteStories.Add(userID, storyID)
	return created, err
}

func (r *Repository) UnfavoriteStory(userID, storyID uint) (bool, error) {
	return r.favoriteStories.Remove(userID, storyID)
}

// ListFavoriteStories returns the user's favorite stories, most recent first.
func (r *Repository) ListFavoriteStories(userID uint) ([]entities.Story, error) {
	return r.favoriteStories.ListObjects(userID)
}

func (r *Repository) IsStoryFavorited(userID, storyID uint) (bool, error) {
	return r.favoriteStories.Has(userID, storyID)
}
