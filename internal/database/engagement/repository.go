// Package engagement exposes the reader-facing relationship operations: library
// membership, likes, favorites, follows, subscriptions and the featured-author list.
//
// Every relationship kind is backed by one edges.Store. Likes on stories and
// recordings also keep the denormalized LikeCount column in step, inside the same
// transaction as the edge write.
package engagement

import (
	"gorm.io/gorm"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/database/edges"
	"github.com/mrlokans/storyshelf/internal/entities"
)

type (
	libraryStore        = edges.Store[entities.UserLibrary, entities.User, entities.Story, *entities.UserLibrary]
	storyLikeStore      = edges.Store[entities.StoryLike, entities.User, entities.Story, *entities.StoryLike]
	favoriteStoryStore  = edges.Store[entities.FavoriteStory, entities.User, entities.Story, *entities.FavoriteStory]
	followStore         = edges.Store[entities.FavoriteAuthor, entities.User, entities.User, *entities.FavoriteAuthor]
	authorLikeStore     = edges.Store[entities.AuthorLike, entities.User, entities.User, *entities.AuthorLike]
	favoriteAuthorStore = edges.Store[entities.FavoriteAuthorUser, entities.User, entities.User, *entities.FavoriteAuthorUser]
	authorLibraryStore  = edges.Store[entities.AuthorLibrary, entities.User, entities.User, *entities.AuthorLibrary]
	subscriptionStore   = edges.Store[entities.UserSubscription, entities.User, entities.User, *entities.UserSubscription]
	recordingLikeStore  = edges.Store[entities.AudioRecordingLike, entities.User, entities.AudioRecording, *entities.AudioRecordingLike]
)

// Repository handles all engagement database operations.
type Repository struct {
	db *gorm.DB

	library         *libraryStore
	storyLikes      *storyLikeStore
	favoriteStories *favoriteStoryStore
	follows         *followStore
	authorLikes     *authorLikeStore
	favoriteAuthors *favoriteAuthorStore
	authorLibrary   *authorLibraryStore
	subscriptions   *subscriptionStore
	recordingLikes  *recordingLikeStore
}

// NewRepository creates a new engagement repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		library:         edges.NewStore[entities.UserLibrary, entities.User, entities.Story](db),
		storyLikes:      edges.NewStore[entities.StoryLike, entities.User, entities.Story](db),
		favoriteStories: edges.NewStore[entities.FavoriteStory, entities.User, entities.Story](db),
		follows:         edges.NewStore[entities.FavoriteAuthor, entities.User, entities.User](db),
		authorLikes:     edges.NewStore[entities.AuthorLike, entities.User, entities.User](db),
		favoriteAuthors: edges.NewStore[entities.FavoriteAuthorUser, entities.User, entities.User](db),
		authorLibrary:   edges.NewStore[entities.AuthorLibrary, entities.User, entities.User](db),
		subscriptions:   edges.NewStore[entities.UserSubscription, entities.User, entities.User](db),
		recordingLikes:  edges.NewStore[entities.AudioRecordingLike, entities.User, entities.AudioRecording](db),
	}
}

// Descriptors lists the table layout of every edge kind.
func (r *Repository) Descriptors() []edges.Descriptor {
	return []edges.Descriptor{
		r.library.Describe(),
		r.storyLikes.Describe(),
		r.favoriteStories.Describe(),
		r.follows.Describe(),
		r.authorLikes.Describe(),
		r.favoriteAuthors.Describe(),
		r.authorLibrary.Describe(),
		r.subscriptions.Describe(),
		r.recordingLikes.Describe(),
	}
}

// adjustCounter adds delta to a counter column. Decrements stop at zero.
func adjustCounter(tx *gorm.DB, table, column string, id uint, delta int) error {
	q := tx.Table(table).Where("id = ?", id)
	if delta < 0 {
		q = q.Where(column + " > 0")
	}
	return database.Translate(q.UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error)
}
