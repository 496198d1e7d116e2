package users

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	db, err := database.Open(database.Options{
		Path:     filepath.Join(t.TempDir(), "users.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)

	repo := NewRepository(db.DB)

	cleanup := func() {
		db.Close()
	}

	return repo, cleanup
}

func newUser(name string) *entities.User {
	return &entities.User{
		ExternalID:  "ext-" + name,
		Username:    name,
		Email:       name + "@example.com",
		DisplayName: name,
	}
}

func TestRepository_CreateUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := newUser("testuser")
	err := repo.CreateUser(user)

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "en", user.PreferredLanguage)
	assert.False(t, user.OnboardingCompleted)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRepository_CreateUser_DuplicateKeys(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.CreateUser(newUser("taken")))

	tests := []struct {
		name string
		user *entities.User
	}{
		{"username", &entities.User{ExternalID: "ext-other1", Username: "taken", Email: "other1@example.com"}},
		{"email", &entities.User{ExternalID: "ext-other2", Username: "other2", Email: "taken@example.com"}},
		{"external id", &entities.User{ExternalID: "ext-taken", Username: "other3", Email: "other3@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateUser(tt.user)
			assert.ErrorIs(t, err, database.ErrDuplicateKey)
		})
	}
}

func TestRepository_CreateUser_Validation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.CreateUser(&entities.User{ExternalID: "x", Username: "x", Email: "not-an-email"})
	assert.ErrorIs(t, err, database.ErrValidationFailed)

	err = repo.CreateUser(&entities.User{Username: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, database.ErrValidationFailed)
}

func TestRepository_Lookups(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := newUser("demo_author")
	require.NoError(t, repo.CreateUser(user))

	byID, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo_author", byID.Username)

	byExternal, err := repo.GetUserByExternalID("ext-demo_author")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byExternal.ID)

	byUsername, err := repo.GetUserByUsername("demo_author")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := repo.GetUserByEmail("DEMO_AUTHOR@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestRepository_GetUserByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetUserByID(999)

	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_UpsertByExternalID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.UpsertByExternalID(newUser("reader"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	refreshed := newUser("reader")
	refreshed.Email = "reader@new.example.com"
	refreshed.AvatarURL = "https://cdn.example.com/reader.png"

	updated, err := repo.UpsertByExternalID(refreshed)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "reader@new.example.com", updated.Email)
	assert.Equal(t, "https://cdn.example.com/reader.png", updated.AvatarURL)
}

func TestRepository_UpdateUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := newUser("writer")
	require.NoError(t, repo.CreateUser(user))

	bio := "Writes about the sea."
	lang := "fr"
	updated, err := repo.UpdateUser(user.ID, UserUpdate{Bio: &bio, PreferredLanguage: &lang})

	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, "fr", updated.PreferredLanguage)
	assert.Equal(t, "writer", updated.DisplayName)
}

func TestRepository_UpdateUser_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	bio := "ghost"
	_, err := repo.UpdateUser(42, UserUpdate{Bio: &bio})

	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_CompleteOnboarding(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := newUser("newcomer")
	require.NoError(t, repo.CreateUser(user))

	_, err := repo.CompleteOnboarding(user.ID, Onboarding{
		Roles:           []string{"reader", "narrator"},
		PreferredGenres: []string{"fantasy"},
		Interests:       []string{"folklore", "travel"},
	})
	require.NoError(t, err)

	stored, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.OnboardingCompleted)
	assert.Equal(t, []string{"reader", "narrator"}, []string(stored.Roles))
	assert.Equal(t, []string{"fantasy"}, []string(stored.PreferredGenres))
	assert.Equal(t, []string{"folklore", "travel"}, []string(stored.Interests))
}
