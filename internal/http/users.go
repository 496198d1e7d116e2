package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/storyshelf/internal/database/users"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// UserStore defines database operations for user profiles.
type UserStore interface {
	UpsertByExternalID(profile *entities.User) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
	GetUserByExternalID(externalID string) (*entities.User, error)
	GetUserByUsername(username string) (*entities.User, error)
	GetUserByEmail(email string) (*entities.User, error)
	UpdateUser(id uint, update users.UserUpdate) (*entities.User, error)
	CompleteOnboarding(id uint, answers users.Onboarding) (*entities.User, error)
}

type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

// SyncUserRequest is sent by the identity gateway after a sign-in.
type SyncUserRequest struct {
	ExternalID  string `json:"external_id" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// SyncUser creates or refreshes a user from identity-provider data.
// POST /api/users/sync
func (uc *UsersController) SyncUser(c *gin.Context) {
	var req SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := uc.store.UpsertByExternalID(&entities.User{
		ExternalID:  req.ExternalID,
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		respondError(c, err, "user", "sync user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /api/users/:id
func (uc *UsersController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	uc.respondUser(c, func() (*entities.User, error) { return uc.store.GetUserByID(id) })
}

// GetMe handles GET /api/me
func (uc *UsersController) GetMe(c *gin.Context) {
	uc.respondUser(c, func() (*entities.User, error) { return uc.store.GetUserByID(GetUserID(c)) })
}

// LookupUser finds a user by exactly one of external_id, username or email.
// GET /api/users/lookup?username=...
func (uc *UsersController) LookupUser(c *gin.Context) {
	switch {
	case c.Query("external_id") != "":
		uc.respondUser(c, func() (*entities.User, error) { return uc.store.GetUserByExternalID(c.Query("external_id")) })
	case c.Query("username") != "":
		uc.respondUser(c, func() (*entities.User, error) { return uc.store.GetUserByUsername(c.Query("username")) })
	case c.Query("email") != "":
		uc.respondUser(c, func() (*entities.User, error) { return uc.store.GetUserByEmail(c.Query("email")) })
	default:
		respondBadRequest(c, "one of external_id, username or email is required")
	}
}

// UpdateProfileRequest holds the editable profile fields.
type UpdateProfileRequest struct {
	DisplayName       *string `json:"display_name"`
	AvatarURL         *string `json:"avatar_url"`
	Bio               *string `json:"bio"`
	PreferredLanguage *string `json:"preferred_language"`
	Email             *string `json:"email"`
	Username          *string `json:"username"`
}

// UpdateMe handles PATCH /api/me
func (uc *UsersController) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := uc.store.UpdateUser(GetUserID(c), users.UserUpdate{
		DisplayName:       req.DisplayName,
		AvatarURL:         req.AvatarURL,
		Bio:               req.Bio,
		PreferredLanguage: req.PreferredLanguage,
		Email:             req.Email,
		Username:          req.Username,
	})
	if err != nil {
		respondError(c, err, "user", "update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

type OnboardingRequest struct {
	Roles           []string `json:"roles"`
	PreferredGenres []string `json:"preferred_genres"`
	Interests       []string `json:"interests"`
}

// CompleteOnboarding handles POST /api/me/onboarding
func (uc *UsersController) CompleteOnboarding(c *gin.Context) {
	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := uc.store.CompleteOnboarding(GetUserID(c), users.Onboarding{
		Roles:           req.Roles,
		PreferredGenres: req.PreferredGenres,
		Interests:       req.Interests,
	})
	if err != nil {
		respondError(c, err, "user", "complete onboarding")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UsersController) respondUser(c *gin.Context, load func() (*entities.User, error)) {
	user, err := load()
	if err != nil {
		respondError(c, err, "user", "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}
