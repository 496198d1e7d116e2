package stories

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	db, err := database.Open(database.Options{
		Path:     filepath.Join(t.TempDir(), "stories.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)

	repo := NewRepository(db.DB)

	cleanup := func() {
		db.Close()
	}

	return db.DB, repo, cleanup
}

func createTestAuthor(t *testing.T, db *gorm.DB, username string) *entities.User {
	user := &entities.User{
		ExternalID: "ext-" + username,
		Username:   username,
		Email:      username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestStory(t *testing.T, repo *Repository, authorID uint, title string, published bool) *entities.Story {
	story := &entities.Story{
		Title:       title,
		AuthorID:    authorID,
		IsPublished: published,
	}
	require.NoError(t, repo.CreateStory(story))
	return story
}

func boolPtr(b bool) *bool {
	return &b
}

func TestRepository_CreateStory_Defaults(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "demo_author")
	story := &entities.Story{
		Title:     "The Lantern Keeper",
		AuthorID:  author.ID,
		ReadCount: 500, // client-supplied counters are discarded
		LikeCount: 20,
	}
	require.NoError(t, repo.CreateStory(story))

	stored, err := repo.GetStory(story.ID)
	require.NoError(t, err)
	assert.True(t, stored.Draft())
	assert.False(t, stored.IsPublished)
	assert.False(t, stored.IsFeatured)
	assert.Equal(t, int64(0), stored.ReadCount)
	assert.Equal(t, int64(0), stored.LikeCount)
	assert.Equal(t, 0, stored.ChapterCount)
	assert.Equal(t, "en", stored.Language)
	require.NotNil(t, stored.Author)
	assert.Equal(t, "demo_author", stored.Author.Username)
}

func TestRepository_CreateStory_ExplicitNonDraft(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	story := &entities.Story{Title: "Finished", AuthorID: author.ID, IsDraft: boolPtr(false)}
	require.NoError(t, repo.CreateStory(story))

	stored, err := repo.GetStory(story.ID)
	require.NoError(t, err)
	assert.False(t, stored.Draft())
}

func TestRepository_CreateStory_RequiresExistingAuthor(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.CreateStory(&entities.Story{Title: "Orphan", AuthorID: 77})
	assert.ErrorIs(t, err, database.ErrValidationFailed)

	count, err := repo.CountStories()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_CreateStory_RequiresTitle(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	err := repo.CreateStory(&entities.Story{Title: "  ", AuthorID: author.ID})
	assert.ErrorIs(t, err, database.ErrValidationFailed)
}

func TestRepository_CreateStory_EstimatesReadTime(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	story := &entities.Story{Title: "Long", AuthorID: author.ID, Content: strings.Repeat("word ", 450)}
	require.NoError(t, repo.CreateStory(story))

	assert.Equal(t, 3, story.EstimatedReadMinutes)
}

func TestRepository_ListStoriesByAuthor(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	a := createTestAuthor(t, db, "a")
	b := createTestAuthor(t, db, "b")
	s1 := createTestStory(t, repo, a.ID, "S1", true)
	createTestStory(t, repo, b.ID, "Other", true)

	stories, err := repo.ListStoriesByAuthor(a.ID)

	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, s1.ID, stories[0].ID)

	count, err := repo.CountStoriesByAuthor(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_ListPublishedStories(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	createTestStory(t, repo, author.ID, "Older", true)
	createTestStory(t, repo, author.ID, "Hidden", false)
	createTestStory(t, repo, author.ID, "Newer", true)

	stories, err := repo.ListPublishedStories(0)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "Newer", stories[0].Title)
	assert.Equal(t, "Older", stories[1].Title)
	for _, s := range stories {
		assert.True(t, s.IsPublished)
	}

	limited, err := repo.ListPublishedStories(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepository_ListFeaturedStories(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	feature := func(title string, published bool, reads int64) {
		story := createTestStory(t, repo, author.ID, title, published)
		_, err := repo.UpdateStory(story.ID, StoryUpdate{IsFeatured: boolPtr(true)})
		require.NoError(t, err)
		require.NoError(t, db.Model(story).UpdateColumn("read_count", reads).Error)
	}
	feature("Quiet", true, 10)
	feature("Popular", true, 900)
	feature("Unpublished", false, 5000)
	createTestStory(t, repo, author.ID, "Plain", true)

	stories, err := repo.ListFeaturedStories()

	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "Popular", stories[0].Title)
	assert.Equal(t, "Quiet", stories[1].Title)
	for _, s := range stories {
		assert.True(t, s.IsFeatured)
		assert.True(t, s.IsPublished)
	}
}

func TestRepository_SearchStories(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	createTestStory(t, repo, author.ID, "The Dragon's Garden", true)
	createTestStory(t, repo, author.ID, "Dragon Draft", false)
	createTestStory(t, repo, author.ID, "Sea Songs", true)

	stories, err := repo.SearchStories("dRaGoN")

	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "The Dragon's Garden", stories[0].Title)

	empty, err := repo.SearchStories("   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_SearchStories_WildcardsMatchLiterally(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	createTestStory(t, repo, author.ID, "100% True", true)
	createTestStory(t, repo, author.ID, "snake_case tales", true)
	createTestStory(t, repo, author.ID, `Back\slash`, true)
	createTestStory(t, repo, author.ID, "Plain Story", true)

	tests := []struct {
		query string
		want  []string
	}{
		{"%", []string{"100% True"}},
		{"_", []string{"snake_case tales"}},
		{"e_c", []string{"snake_case tales"}},
		{`\`, []string{`Back\slash`}},
		{"P%y", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			stories, err := repo.SearchStories(tt.query)
			require.NoError(t, err)
			var titles []string
			for _, s := range stories {
				titles = append(titles, s.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestRepository_UpdateStory(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	story := createTestStory(t, repo, author.ID, "Working Title", false)
	time.Sleep(5 * time.Millisecond)

	title := "Final Title"
	updated, err := repo.UpdateStory(story.ID, StoryUpdate{
		Title:       &title,
		IsPublished: boolPtr(true),
		IsDraft:     boolPtr(false),
		Tags:        &[]string{"sea", "mystery"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Final Title", updated.Title)
	assert.True(t, updated.IsPublished)
	assert.False(t, updated.Draft())
	assert.Equal(t, []string{"sea", "mystery"}, []string(updated.Tags))
	assert.True(t, updated.UpdatedAt.After(story.UpdatedAt))
}

func TestRepository_UpdateStory_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.UpdateStory(404, StoryUpdate{IsPublished: boolPtr(true)})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_DeleteStory(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	story := createTestStory(t, repo, author.ID, "Doomed", true)

	removed, err := repo.DeleteStory(story.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.GetStory(story.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	removed, err = repo.DeleteStory(story.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepository_IncrementReadCount(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "author")
	story := createTestStory(t, repo, author.ID, "Read Me", true)

	require.NoError(t, repo.IncrementReadCount(story.ID))
	require.NoError(t, repo.IncrementReadCount(story.ID))

	stored, err := repo.GetStory(story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.ReadCount)

	assert.ErrorIs(t, repo.IncrementReadCount(999), database.ErrNotFound)
}

func TestEstimateReadMinutes(t *testing.T) {
	assert.Equal(t, 0, EstimateReadMinutes(""))
	assert.Equal(t, 1, EstimateReadMinutes("a few words"))
	assert.Equal(t, 1, EstimateReadMinutes(strings.Repeat("w ", 200)))
	assert.Equal(t, 2, EstimateReadMinutes(strings.Repeat("w ", 201)))
}
