package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/storyshelf/internal/entities"
)

// EngagementStore defines database operations for user relationships:
// library, likes, favorites, follows and subscriptions.
type EngagementStore interface {
	AddToLibrary(userID, storyID uint) (bool, error)
	RemoveFromLibrary(userID, storyID uint) (bool, error)
	IsInLibrary(userID, storyID uint) (bool, error)
	ListLibrary(userID uint) ([]entities.Story, error)

	LikeStory(userID, storyID uint) (bool, error)
	UnlikeStory(userID, storyID uint) (bool, error)
	IsStoryLiked(userID, storyID uint) (bool, error)
	StoryLikeCount(storyID uint) (int64, error)
	ListLikedStories(userID uint) ([]entities.Story, error)

	FavoriteStory(userID, storyID uint) (bool, error)
	UnfavoriteStory(userID, storyID uint) (bool, error)
	IsStoryFavorited(userID, storyID uint) (bool, error)
	ListFavoriteStories(userID uint) ([]entities.Story, error)

	FollowAuthor(userID, authorID uint) (bool, error)
	UnfollowAuthor(userID, authorID uint) (bool, error)
	IsFollowingAuthor(userID, authorID uint) (bool, error)
	ListFollowedAuthors(userID uint) ([]entities.User, error)
	ListFollowers(authorID uint) ([]entities.User, error)
	AuthorFollowerCount(authorID uint) (int64, error)

	LikeAuthor(userID, authorID uint) (bool, error)
	UnlikeAuthor(userID, authorID uint) (bool, error)
	IsAuthorLiked(userID, authorID uint) (bool, error)
	AuthorLikeCount(authorID uint) (int64, error)

	FavoriteAuthor(userID, authorID uint) (bool, error)
	UnfavoriteAuthor(userID, authorID uint) (bool, error)
	IsAuthorFavorited(userID, authorID uint) (bool, error)
	ListFavoriteAuthors(userID uint) ([]entities.User, error)

	AddAuthorToLibrary(userID, authorID uint) (bool, error)
	RemoveAuthorFromLibrary(userID, authorID uint) (bool, error)
	IsAuthorInLibrary(userID, authorID uint) (bool, error)
	ListAuthorLibrary(userID uint) ([]entities.User, error)

	Subscribe(subscriberID, targetID uint) (bool, error)
	Unsubscribe(subscriberID, targetID uint) (bool, error)
	IsSubscribed(subscriberID, targetID uint) (bool, error)
	ListSubscriptions(subscriberID uint) ([]entities.User, error)
	ListSubscribers(targetID uint) ([]entities.User, error)

	LikeRecording(userID, recordingID uint) (bool, error)
	UnlikeRecording(userID, recordingID uint) (bool, error)
	IsRecordingLiked(userID, recordingID uint) (bool, error)
	RecordingLikeCount(recordingID uint) (int64, error)

	ListFeaturedAuthors() ([]entities.FeaturedAuthor, error)
	AddFeaturedAuthor(authorID uint, displayOrder int) (*entities.FeaturedAuthor, error)
	RemoveFeaturedAuthor(authorID uint) (bool, error)
}

type EngagementController struct {
	store EngagementStore
}

func NewEngagementController(store EngagementStore) *EngagementController {
	return &EngagementController{store: store}
}

// EdgeResponse reports the state of one relationship after a request.
// Changed is false when the request was a no-op (already present or absent).
type EdgeResponse struct {
	Active  bool `json:"active"`
	Changed bool `json:"changed"`
}

type edgeFunc func(userID, targetID uint) (bool, error)

// Toggle bundles the three operations behind a relationship toggle endpoint:
// PUT adds, DELETE removes and GET reports the current state.
type Toggle struct {
	name   string
	add    edgeFunc
	remove edgeFunc
	check  edgeFunc
}

func (e Toggle) handle(c *gin.Context, op edgeFunc, active bool) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	changed, err := op(GetUserID(c), targetID)
	if err != nil {
		respondError(c, err, e.name, e.name)
		return
	}
	c.JSON(http.StatusOK, EdgeResponse{Active: active, Changed: changed})
}

func (e Toggle) Add(c *gin.Context)    { e.handle(c, e.add, true) }
func (e Toggle) Remove(c *gin.Context) { e.handle(c, e.remove, false) }

func (e Toggle) Check(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	active, err := e.check(GetUserID(c), targetID)
	if err != nil {
		respondError(c, err, e.name, e.name)
		return
	}
	c.JSON(http.StatusOK, EdgeResponse{Active: active})
}

func (ec *EngagementController) Library() Toggle {
	return Toggle{"library", ec.store.AddToLibrary, ec.store.RemoveFromLibrary, ec.store.IsInLibrary}
}

func (ec *EngagementController) StoryLike() Toggle {
	return Toggle{"story like", ec.store.LikeStory, ec.store.UnlikeStory, ec.store.IsStoryLiked}
}

func (ec *EngagementController) StoryFavorite() Toggle {
	return Toggle{"story favorite", ec.store.FavoriteStory, ec.store.UnfavoriteStory, ec.store.IsStoryFavorited}
}

func (ec *EngagementController) Follow() Toggle {
	return Toggle{"follow", ec.store.FollowAuthor, ec.store.UnfollowAuthor, ec.store.IsFollowingAuthor}
}

func (ec *EngagementController) AuthorLike() Toggle {
	return Toggle{"author like", ec.store.LikeAuthor, ec.store.UnlikeAuthor, ec.store.IsAuthorLiked}
}

func (ec *EngagementController) AuthorFavorite() Toggle {
	return Toggle{"author favorite", ec.store.FavoriteAuthor, ec.store.UnfavoriteAuthor, ec.store.IsAuthorFavorited}
}

func (ec *EngagementController) AuthorLibrary() Toggle {
	return Toggle{"author library", ec.store.AddAuthorToLibrary, ec.store.RemoveAuthorFromLibrary, ec.store.IsAuthorInLibrary}
}

func (ec *EngagementController) Subscription() Toggle {
	return Toggle{"subscription", ec.store.Subscribe, ec.store.Unsubscribe, ec.store.IsSubscribed}
}

func (ec *EngagementController) RecordingLike() Toggle {
	return Toggle{"recording like", ec.store.LikeRecording, ec.store.UnlikeRecording, ec.store.IsRecordingLiked}
}

type CountResponse struct {
	Count int64 `json:"count"`
}

func countHandler(name string, count func(id uint) (int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		n, err := count(id)
		if err != nil {
			respondError(c, err, name, "count "+name)
			return
		}
		c.JSON(http.StatusOK, CountResponse{Count: n})
	}
}

// StoryLikeCount handles GET /api/stories/:id/likes/count
func (ec *EngagementController) StoryLikeCount(c *gin.Context) {
	countHandler("story likes", ec.store.StoryLikeCount)(c)
}

// AuthorLikeCount handles GET /api/authors/:id/likes/count
func (ec *EngagementController) AuthorLikeCount(c *gin.Context) {
	countHandler("author likes", ec.store.AuthorLikeCount)(c)
}

// AuthorFollowerCount handles GET /api/authors/:id/followers/count
func (ec *EngagementController) AuthorFollowerCount(c *gin.Context) {
	countHandler("followers", ec.store.AuthorFollowerCount)(c)
}

// RecordingLikeCount handles GET /api/recordings/:id/likes/count
func (ec *EngagementController) RecordingLikeCount(c *gin.Context) {
	countHandler("recording likes", ec.store.RecordingLikeCount)(c)
}

func userListHandler(name string, list func(id uint) ([]entities.User, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		users, err := list(id)
		if err != nil {
			respondError(c, err, name, "list "+name)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}

// ListFollowers handles GET /api/authors/:id/followers
func (ec *EngagementController) ListFollowers(c *gin.Context) {
	userListHandler("followers", ec.store.ListFollowers)(c)
}

// ListSubscribers handles GET /api/users/:id/subscribers
func (ec *EngagementController) ListSubscribers(c *gin.Context) {
	userListHandler("subscribers", ec.store.ListSubscribers)(c)
}

// MyStories handles GET /api/me/library, /api/me/likes and /api/me/favorites,
// picking the list by the "list" route parameter.
func (ec *EngagementController) MyStories(c *gin.Context) {
	var list func(uint) ([]entities.Story, error)
	switch c.Param("list") {
	case "library":
		list = ec.store.ListLibrary
	case "likes":
		list = ec.store.ListLikedStories
	case "favorites":
		list = ec.store.ListFavoriteStories
	default:
		respondNotFound(c, "list")
		return
	}
	stories, err := list(GetUserID(c))
	if err != nil {
		respondError(c, err, "stories", "list my stories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// MyAuthors handles GET /api/me/authors/:list where list is one of
// following, favorites, library or subscriptions.
func (ec *EngagementController) MyAuthors(c *gin.Context) {
	var list func(uint) ([]entities.User, error)
	switch c.Param("list") {
	case "following":
		list = ec.store.ListFollowedAuthors
	case "favorites":
		list = ec.store.ListFavoriteAuthors
	case "library":
		list = ec.store.ListAuthorLibrary
	case "subscriptions":
		list = ec.store.ListSubscriptions
	default:
		respondNotFound(c, "list")
		return
	}
	users, err := list(GetUserID(c))
	if err != nil {
		respondError(c, err, "authors", "list my authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListFeaturedAuthors handles GET /api/featured-authors
func (ec *EngagementController) ListFeaturedAuthors(c *gin.Context) {
	featured, err := ec.store.ListFeaturedAuthors()
	if err != nil {
		respondError(c, err, "featured authors", "list featured authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"featured_authors": featured})
}

type FeatureAuthorRequest struct {
	AuthorID     uint `json:"author_id" binding:"required"`
	DisplayOrder int  `json:"display_order"`
}

// AddFeaturedAuthor handles POST /api/featured-authors
func (ec *EngagementController) AddFeaturedAuthor(c *gin.Context) {
	var req FeatureAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	featured, err := ec.store.AddFeaturedAuthor(req.AuthorID, req.DisplayOrder)
	if err != nil {
		respondError(c, err, "author", "feature author")
		return
	}
	c.JSON(http.StatusOK, featured)
}

// RemoveFeaturedAuthor handles DELETE /api/featured-authors/:id
func (ec *EngagementController) RemoveFeaturedAuthor(c *gin.Context) {
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	removed, err := ec.store.RemoveFeaturedAuthor(authorID)
	if err != nil {
		respondError(c, err, "featured author", "remove featured author")
		return
	}
	if !removed {
		respondNotFound(c, "featured author")
		return
	}
	respondSuccess(c, "author removed from featured")
}
