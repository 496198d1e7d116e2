package engagement

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	db, err := database.Open(database.Options{
		Path:     filepath.Join(t.TempDir(), "engagement.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	return db.DB, NewRepository(db.DB), func() { db.Close() }
}

func createUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	u := &entities.User{
		ExternalID: "ext-" + username,
		Username:   username,
		Email:      fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createStory(t *testing.T, db *gorm.DB, authorID uint, title string) *entities.Story {
	s := &entities.Story{Title: title, AuthorID: authorID, IsPublished: true}
	require.NoError(t, db.Create(s).Error)
	return s
}

func storyLikeCounter(t *testing.T, db *gorm.DB, storyID uint) int64 {
	var s entities.Story
	require.NoError(t, db.First(&s, storyID).Error)
	return s.LikeCount
}

func TestRepository_StoryLikeScenario(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "demo_author")
	reader := createUser(t, db, "reader")
	story := createStory(t, db, author.ID, "S1")

	created, err := repo.LikeStory(reader.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, created)

	count, err := repo.StoryLikeCount(story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err := repo.IsStoryLiked(reader.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), storyLikeCounter(t, db, story.ID))
}

func TestRepository_LikeStory_Idempotent(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	story := createStory(t, db, author.ID, "S1")

	_, err := repo.LikeStory(reader.ID, story.ID)
	require.NoError(t, err)
	created, err := repo.LikeStory(reader.ID, story.ID)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.StoryLikeCount(story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(1), storyLikeCounter(t, db, story.ID))
}

func TestRepository_UnlikeStory(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	story := createStory(t, db, author.ID, "S1")
	var readers []*entities.User
	for i := 0; i < 3; i++ {
		r := createUser(t, db, fmt.Sprintf("reader%d", i))
		readers = append(readers, r)
		_, err := repo.LikeStory(r.ID, story.ID)
		require.NoError(t, err)
	}

	count, err := repo.StoryLikeCount(story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	removed, err := repo.UnlikeStory(readers[0].ID, story.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	count, err = repo.StoryLikeCount(story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(2), storyLikeCounter(t, db, story.ID))

	liked, err := repo.IsStoryLiked(readers[0].ID, story.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	removed, err = repo.UnlikeStory(readers[0].ID, story.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, int64(2), storyLikeCounter(t, db, story.ID))
}

func TestRepository_UnlikeStory_CounterNeverNegative(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	story := createStory(t, db, author.ID, "S1")

	_, err := repo.LikeStory(reader.ID, story.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&entities.Story{}).Where("id = ?", story.ID).UpdateColumn("like_count", 0).Error)

	removed, err := repo.UnlikeStory(reader.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, int64(0), storyLikeCounter(t, db, story.ID))
}

func TestRepository_LikeStory_MissingStory(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	reader := createUser(t, db, "reader")
	_, err := repo.LikeStory(reader.ID, 999)
	assert.ErrorIs(t, err, database.ErrValidationFailed)
}

func TestRepository_Library(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	first := createStory(t, db, author.ID, "First")
	second := createStory(t, db, author.ID, "Second")

	for _, s := range []*entities.Story{first, second} {
		created, err := repo.AddToLibrary(reader.ID, s.ID)
		require.NoError(t, err)
		assert.True(t, created)
	}

	stories, err := repo.ListLibrary(reader.ID)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "Second", stories[0].Title)
	assert.Equal(t, "First", stories[1].Title)

	in, err := repo.IsInLibrary(reader.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, in)

	removed, err := repo.RemoveFromLibrary(reader.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	in, err = repo.IsInLibrary(reader.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, in)
}

func TestRepository_FavoriteStories(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	story := createStory(t, db, author.ID, "S1")

	_, err := repo.FavoriteStory(reader.ID, story.ID)
	require.NoError(t, err)

	favs, err := repo.ListFavoriteStories(reader.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, story.ID, favs[0].ID)

	// Favoriting is independent of liking.
	liked, err := repo.IsStoryLiked(reader.ID, story.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	removed, err := repo.UnfavoriteStory(reader.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	fav, err := repo.IsStoryFavorited(reader.ID, story.ID)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestRepository_FollowAuthor(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")

	_, err := repo.FollowAuthor(author.ID, author.ID)
	assert.ErrorIs(t, err, database.ErrValidationFailed)

	created, err := repo.FollowAuthor(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, created)

	following, err := repo.IsFollowingAuthor(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)

	authors, err := repo.ListFollowedAuthors(reader.ID)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "author", authors[0].Username)

	followers, err := repo.ListFollowers(author.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "reader", followers[0].Username)

	removed, err := repo.UnfollowAuthor(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestRepository_AuthorLikesFavoritesAndLibraryAreSeparate(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")

	_, err := repo.LikeAuthor(reader.ID, author.ID)
	require.NoError(t, err)
	_, err = repo.FavoriteAuthor(reader.ID, author.ID)
	require.NoError(t, err)

	likes, err := repo.AuthorLikeCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	fav, err := repo.IsAuthorFavorited(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	following, err := repo.IsFollowingAuthor(reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, following)

	inLibrary, err := repo.IsAuthorInLibrary(reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, inLibrary)

	_, err = repo.AddAuthorToLibrary(reader.ID, author.ID)
	require.NoError(t, err)
	lib, err := repo.ListAuthorLibrary(reader.ID)
	require.NoError(t, err)
	require.Len(t, lib, 1)

	favs, err := repo.ListFavoriteAuthors(reader.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)

	removed, err := repo.UnlikeAuthor(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	liked, err := repo.IsAuthorLiked(reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	removed, err = repo.UnfavoriteAuthor(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.RemoveAuthorFromLibrary(reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestRepository_Subscriptions(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	_, err := repo.Subscribe(alice.ID, alice.ID)
	assert.ErrorIs(t, err, database.ErrValidationFailed)

	_, err = repo.Subscribe(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = repo.Subscribe(carol.ID, bob.ID)
	require.NoError(t, err)
	_, err = repo.Subscribe(alice.ID, carol.ID)
	require.NoError(t, err)

	subs, err := repo.ListSubscriptions(alice.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "carol", subs[0].Username)
	assert.Equal(t, "bob", subs[1].Username)

	subscribers, err := repo.ListSubscribers(bob.ID)
	require.NoError(t, err)
	assert.Len(t, subscribers, 2)

	ok, err := repo.IsSubscribed(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := repo.Unsubscribe(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	ok, err = repo.IsSubscribed(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_AuthorFollowerCount(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	follower := createUser(t, db, "follower")
	subscriber := createUser(t, db, "subscriber")
	both := createUser(t, db, "both")

	count, err := repo.AuthorFollowerCount(author.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.FollowAuthor(follower.ID, author.ID)
	require.NoError(t, err)
	_, err = repo.Subscribe(subscriber.ID, author.ID)
	require.NoError(t, err)
	_, err = repo.FollowAuthor(both.ID, author.ID)
	require.NoError(t, err)
	_, err = repo.Subscribe(both.ID, author.ID)
	require.NoError(t, err)

	count, err = repo.AuthorFollowerCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRepository_FeaturedAuthors(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := createUser(t, db, "first")
	second := createUser(t, db, "second")

	_, err := repo.AddFeaturedAuthor(first.ID, 2)
	require.NoError(t, err)
	_, err = repo.AddFeaturedAuthor(second.ID, 1)
	require.NoError(t, err)

	featured, err := repo.ListFeaturedAuthors()
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, second.ID, featured[0].AuthorID)
	require.NotNil(t, featured[0].Author)
	assert.Equal(t, "second", featured[0].Author.Username)

	// Re-adding moves the author instead of duplicating it.
	moved, err := repo.AddFeaturedAuthor(first.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, moved.DisplayOrder)

	featured, err = repo.ListFeaturedAuthors()
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, first.ID, featured[0].AuthorID)

	_, err = repo.AddFeaturedAuthor(999, 0)
	assert.ErrorIs(t, err, database.ErrValidationFailed)

	removed, err := repo.RemoveFeaturedAuthor(first.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.RemoveFeaturedAuthor(first.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepository_RecordingLikes(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	story := createStory(t, db, author.ID, "S1")
	rec := &entities.AudioRecording{UserID: author.ID, StoryID: story.ID, AudioURL: "https://cdn.example.com/a.mp3"}
	require.NoError(t, db.Create(rec).Error)

	created, err := repo.LikeRecording(reader.ID, rec.ID)
	require.NoError(t, err)
	assert.True(t, created)

	liked, err := repo.IsRecordingLiked(reader.ID, rec.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := repo.RecordingLikeCount(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var stored entities.AudioRecording
	require.NoError(t, db.First(&stored, rec.ID).Error)
	assert.Equal(t, int64(1), stored.LikeCount)

	removed, err := repo.UnlikeRecording(reader.ID, rec.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, db.First(&stored, rec.ID).Error)
	assert.Equal(t, int64(0), stored.LikeCount)
}

func TestRepository_Descriptors(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	descs := repo.Descriptors()
	require.Len(t, descs, 9)

	tables := make(map[string]bool)
	for _, d := range descs {
		tables[d.Table] = true
	}
	assert.True(t, tables["user_subscriptions"])
	assert.True(t, tables["audio_recording_likes"])
}
