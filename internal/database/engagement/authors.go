package engagement

import (
	"gorm.io/gorm/clause"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// FollowAuthor makes userID follow authorID. Users cannot follow themselves.
func (r *Repository) FollowAuthor(userID, authorID uint) (bool, error) {
	if userID == authorID {
		return false, database.Invalidf("users cannot follow themselves")
	}
	_, created, err := r.follows.Add(userID, authorID)
	return created, err
}

func (r *Repository) UnfollowAuthor(userID, authorID uint) (bool, error) {
	return r.follows.Remove(userID, authorID)
}

// ListFollowedAuthors returns the authors a user follows, most recent first.
func (r *Repository) ListFollowedAuthors(userID uint) ([]entities.User, error) {
	return r.follows.ListObjects(userID)
}

// ListFollowers returns the users following an author, most recent first.
func (r *Repository) ListFollowers(authorID uint) ([]entities.User, error) {
	return r.follows.ListSubjects(authorID)
}

func (r *Repository) IsFollowingAuthor(userID, authorID uint) (bool, error) {
	return r.follows.Has(userID, authorID)
}

func (r *Repository) LikeAuthor(userID, authorID uint) (bool, error) {
	_, created, err := r.authorLikes.Add(userID, authorID)
	return created, err
}

func (r *Repository) UnlikeAuthor(userID, authorID uint) (bool, error) {
	return r.authorLikes.Remove(userID, authorID)
}

// AuthorLikeCount counts like edges for an author.
func (r *Repository) AuthorLikeCount(authorID uint) (int64, error) {
	return r.authorLikes.Count(authorID)
}

func (r *Repository) IsAuthorLiked(userID, authorID uint) (bool, error) {
	return r.authorLikes.Has(userID, authorID)
}

func (r *Repository) FavoriteAuthor(userID, authorID uint) (bool, error) {
	_, created, err := r.favoriteAuthors.Add(userID, authorID)
	return created, err
}

func (r *Repository) UnfavoriteAuthor(userID, authorID uint) (bool, error) {
	return r.favoriteAuthors.Remove(userID, authorID)
}

func (r *Repository) ListFavoriteAuthors(userID uint) ([]entities.User, error) {
	return r.favoriteAuthors.ListObjects(userID)
}

func (r *Repository) IsAuthorFavorited(userID, authorID uint) (bool, error) {
	return r.favoriteAuthors.Has(userID, authorID)
}

func (r *Repository) AddAuthorToLibrary(userID, authorID uint) (bool, error) {
	_, created, err := r.authorLibrary.Add(userID, authorID)
	return created, err
}

func (r *Repository) RemoveAuthorFromLibrary(userID, authorID uint) (bool, error) {
	return r.authorLibrary.Remove(userID, authorID)
}

func (r *Repository) ListAuthorLibrary(userID uint) ([]entities.User, error) {
	return r.authorLibrary.ListObjects(userID)
}

func (r *Repository) IsAuthorInLibrary(userID, authorID uint) (bool, error) {
	return r.authorLibrary.Has(userID, authorID)
}

// AuthorFollowerCount counts distinct users who follow or subscribe to the author.
func (r *Repository) AuthorFollowerCount(authorID uint) (int64, error) {
	var count int64
	err := r.db.Raw(`SELECT COUNT(*) FROM (
		SELECT user_id AS follower_id FROM favorite_authors WHERE author_id = ?
		UNION
		SELECT subscriber_id AS follower_id FROM user_subscriptions WHERE subscribed_to_id = ?
	) AS followers`, authorID, authorID).Scan(&count).Error
	return count, database.Translate(err)
}

// ListFeaturedAuthors returns the featured list in display order.
func (r *Repository) ListFeaturedAuthors() ([]entities.FeaturedAuthor, error) {
	var featured []entities.FeaturedAuthor
	err := r.db.Preload("Author").
		Order("display_order ASC, id ASC").
		Find(&featured).Error
	return featured, database.Translate(err)
}

// AddFeaturedAuthor places the author on the featured list, or moves it to
// displayOrder when it is already there.
func (r *Repository) AddFeaturedAuthor(authorID uint, displayOrder int) (*entities.FeaturedAuthor, error) {
	if err := database.RequireRow(r.db, "users", authorID); err != nil {
		return nil, err
	}
	row := &entities.FeaturedAuthor{AuthorID: authorID, DisplayOrder: displayOrder}
	err := r.db.Omit("Author").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "author_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_order"}),
	}).Create(row).Error
	if err != nil {
		return nil, database.Translate(err)
	}

	var stored entities.FeaturedAuthor
	if err := r.db.Preload("Author").Where("author_id = ?", authorID).First(&stored).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &stored, nil
}

// RemoveFeaturedAuthor reports whether the author was featured.
func (r *Repository) RemoveFeaturedAuthor(authorID uint) (bool, error) {
	result := r.db.Where("author_id = ?", authorID).Delete(&entities.FeaturedAuthor{})
	if result.Error != nil {
		return false, database.Translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}
