// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByExternalID(subject)
package users

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserUpdate holds the profile fields that may be changed; nil fields are left alone.
type UserUpdate struct {
	DisplayName       *string
	AvatarURL         *string
	Bio               *string
	PreferredLanguage *string
	Email             *string
	Username          *string
}

// Onboarding is the answer set collected on first sign-in.
type Onboarding struct {
	Roles           []string
	PreferredGenres []string
	Interests       []string
}

// CreateUser inserts a new user. Username, email and external id must be unique.
func (r *Repository) CreateUser(user *entities.User) error {
	if err := validate(user); err != nil {
		return err
	}
	return database.Translate(r.db.Create(user).Error)
}

// UpsertByExternalID creates the user on first sign-in, or refreshes the
// identity-provider fields (email, display name, avatar) on later sign-ins.
func (r *Repository) UpsertByExternalID(profile *entities.User) (*entities.User, error) {
	if err := validate(profile); err != nil {
		return nil, err
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "display_name", "avatar_url", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return nil, database.Translate(err)
	}

	return r.GetUserByExternalID(profile.ExternalID)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &user, nil
}

// GetUserByExternalID retrieves a user by identity-provider reference.
func (r *Repository) GetUserByExternalID(externalID string) (*entities.User, error) {
	return r.findBy("external_id", externalID)
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	return r.findBy("username", username)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (r *Repository) GetUserByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &user, nil
}

// UpdateUser applies a partial profile update and returns the fresh row.
func (r *Repository) UpdateUser(id uint, update UserUpdate) (*entities.User, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if update.DisplayName != nil {
		updates["display_name"] = *update.DisplayName
	}
	if update.AvatarURL != nil {
		updates["avatar_url"] = *update.AvatarURL
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.PreferredLanguage != nil {
		updates["preferred_language"] = *update.PreferredLanguage
	}
	if update.Email != nil {
		if !strings.Contains(*update.Email, "@") {
			return nil, database.Invalidf("email %q is malformed", *update.Email)
		}
		updates["email"] = *update.Email
	}
	if update.Username != nil {
		if strings.TrimSpace(*update.Username) == "" {
			return nil, database.Invalidf("username is required")
		}
		updates["username"] = *update.Username
	}

	return r.apply(id, updates)
}

// CompleteOnboarding stores the onboarding answers and marks onboarding as done.
func (r *Repository) CompleteOnboarding(id uint, answers Onboarding) (*entities.User, error) {
	user, err := r.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	user.Roles = answers.Roles
	user.PreferredGenres = answers.PreferredGenres
	user.Interests = answers.Interests
	user.OnboardingCompleted = true

	err = r.db.Model(user).
		Select("roles", "preferred_genres", "interests", "onboarding_completed", "updated_at").
		Updates(user).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return user, nil
}

func (r *Repository) apply(id uint, updates map[string]any) (*entities.User, error) {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetUserByID(id)
}

func (r *Repository) findBy(column, value string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where(column+" = ?", value).First(&user).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &user, nil
}

func validate(user *entities.User) error {
	switch {
	case strings.TrimSpace(user.ExternalID) == "":
		return database.Invalidf("external id is required")
	case strings.TrimSpace(user.Username) == "":
		return database.Invalidf("username is required")
	case !strings.Contains(user.Email, "@"):
		return database.Invalidf("email %q is malformed", user.Email)
	}
	return nil
}
