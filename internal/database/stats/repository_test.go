package stats

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/database/engagement"
	"github.com/mrlokans/storyshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	db, err := database.Open(database.Options{
		Path:     filepath.Join(t.TempDir(), "stats.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	return db.DB, NewRepository(db.DB), func() { db.Close() }
}

func createUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	u := &entities.User{ExternalID: "ext-" + username, Username: username, Email: fmt.Sprintf("%s@example.com", username)}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestRepository_GetAuthorStats(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "author")
	fan := createUser(t, db, "fan")
	follower := createUser(t, db, "follower")
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&entities.Story{Title: fmt.Sprintf("S%d", i), AuthorID: author.ID}).Error)
	}

	edges := engagement.NewRepository(db)
	_, err := edges.LikeAuthor(fan.ID, author.ID)
	require.NoError(t, err)
	_, err = edges.FollowAuthor(follower.ID, author.ID)
	require.NoError(t, err)
	_, err = edges.Subscribe(fan.ID, author.ID)
	require.NoError(t, err)

	stats, err := repo.GetAuthorStats(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.StoryCount)
	assert.Equal(t, int64(1), stats.LikeCount)
	assert.Equal(t, int64(2), stats.FollowerCount)
}

func TestRepository_GetAuthorStats_NoActivity(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "quiet")
	stats, err := repo.GetAuthorStats(author.ID)
	require.NoError(t, err)
	assert.Equal(t, AuthorStats{AuthorID: author.ID}, *stats)
}

func TestRepository_GetAuthorStats_UnknownAuthor(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetAuthorStats(42)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
