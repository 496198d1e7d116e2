package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/storyshelf/internal/database/stories"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// StoryStore defines database operations for stories and chapters.
type StoryStore interface {
	CreateStory(story *entities.Story) error
	CreateStoryWithChapters(story *entities.Story, chapters []entities.Chapter) (*entities.Story, error)
	GetStory(id uint) (*entities.Story, error)
	ListStoriesByAuthor(authorID uint) ([]entities.Story, error)
	ListPublishedStories(limit int) ([]entities.Story, error)
	ListFeaturedStories() ([]entities.Story, error)
	SearchStories(query string) ([]entities.Story, error)
	UpdateStory(id uint, update stories.StoryUpdate) (*entities.Story, error)
	DeleteStory(id uint) (bool, error)
	IncrementReadCount(id uint) error
	RefreshChapterCount(storyID uint) (int, error)

	CreateChapter(chapter *entities.Chapter) error
	GetChapter(id uint) (*entities.Chapter, error)
	ListChapters(storyID uint) ([]entities.Chapter, error)
	UpdateChapter(id uint, update stories.ChapterUpdate) (*entities.Chapter, error)
	DeleteChapter(id uint) (bool, error)
}

type StoriesController struct {
	store StoryStore
}

func NewStoriesController(store StoryStore) *StoriesController {
	return &StoriesController{store: store}
}

// ListPublished handles GET /api/stories?limit=N
func (sc *StoriesController) ListPublished(c *gin.Context) {
	list, err := sc.store.ListPublishedStories(parseLimit(c, stories.DefaultListLimit, 200))
	if err != nil {
		respondError(c, err, "stories", "list published stories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": list})
}

// ListFeatured handles GET /api/stories/featured
func (sc *StoriesController) ListFeatured(c *gin.Context) {
	list, err := sc.store.ListFeaturedStories()
	if err != nil {
		respondError(c, err, "stories", "list featured stories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": list})
}

// Search handles GET /api/stories/search?q=...
func (sc *StoriesController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}
	list, err := sc.store.SearchStories(query)
	if err != nil {
		respondError(c, err, "stories", "search stories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": list})
}

// ListByAuthor handles GET /api/authors/:id/stories
func (sc *StoriesController) ListByAuthor(c *gin.Context) {
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	list, err := sc.store.ListStoriesByAuthor(authorID)
	if err != nil {
		respondError(c, err, "stories", "list author stories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": list})
}

// GetStory handles GET /api/stories/:id
func (sc *StoriesController) GetStory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	story, err := sc.store.GetStory(id)
	if err != nil {
		respondError(c, err, "story", "get story")
		return
	}
	c.JSON(http.StatusOK, story)
}

// MarkRead handles POST /api/stories/:id/read
func (sc *StoriesController) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sc.store.IncrementReadCount(id); err != nil {
		respondError(c, err, "story", "increment read count")
		return
	}
	respondSuccess(c, "read recorded")
}

type ChapterRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	ChapterNumber int    `json:"chapter_number"`
}

type CreateStoryRequest struct {
	Title         string           `json:"title" binding:"required"`
	Description   string           `json:"description"`
	Content       string           `json:"content"`
	CoverImageURL string           `json:"cover_image_url"`
	Genre         string           `json:"genre"`
	Language      string           `json:"language"`
	IsPublished   bool             `json:"is_published"`
	IsDraft       *bool            `json:"is_draft"`
	Tags          []string         `json:"tags"`
	Chapters      []ChapterRequest `json:"chapters"`
}

// CreateStory creates a story authored by the caller, with its chapters in the
// same transaction when any are given.
// POST /api/stories
func (sc *StoriesController) CreateStory(c *gin.Context) {
	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	story := &entities.Story{
		Title:         req.Title,
		Description:   req.Description,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		Genre:         req.Genre,
		Language:      req.Language,
		AuthorID:      GetUserID(c),
		IsPublished:   req.IsPublished,
		IsDraft:       req.IsDraft,
		Tags:          req.Tags,
	}

	if len(req.Chapters) == 0 {
		if err := sc.store.CreateStory(story); err != nil {
			respondError(c, err, "story", "create story")
			return
		}
		respondCreated(c, story)
		return
	}

	chapters := make([]entities.Chapter, len(req.Chapters))
	for i, ch := range req.Chapters {
		number := ch.ChapterNumber
		if number == 0 {
			number = i + 1
		}
		chapters[i] = entities.Chapter{Title: ch.Title, Content: ch.Content, ChapterNumber: number}
	}
	created, err := sc.store.CreateStoryWithChapters(story, chapters)
	if err != nil {
		respondError(c, err, "story", "create story with chapters")
		return
	}
	respondCreated(c, created)
}

type UpdateStoryRequest struct {
	Title                *string   `json:"title"`
	Description          *string   `json:"description"`
	Content              *string   `json:"content"`
	CoverImageURL        *string   `json:"cover_image_url"`
	Genre                *string   `json:"genre"`
	Language             *string   `json:"language"`
	IsPublished          *bool     `json:"is_published"`
	IsDraft              *bool     `json:"is_draft"`
	IsFeatured           *bool     `json:"is_featured"`
	EstimatedReadMinutes *int      `json:"estimated_read_minutes"`
	Tags                 *[]string `json:"tags"`
}

// UpdateStory handles PATCH /api/stories/:id (author only)
func (sc *StoriesController) UpdateStory(c *gin.Context) {
	story, ok := sc.ownedStory(c, "id")
	if !ok {
		return
	}

	var req UpdateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := sc.store.UpdateStory(story.ID, stories.StoryUpdate{
		Title:                req.Title,
		Description:          req.Description,
		Content:              req.Content,
		CoverImageURL:        req.CoverImageURL,
		Genre:                req.Genre,
		Language:             req.Language,
		IsPublished:          req.IsPublished,
		IsDraft:              req.IsDraft,
		IsFeatured:           req.IsFeatured,
		EstimatedReadMinutes: req.EstimatedReadMinutes,
		Tags:                 req.Tags,
	})
	if err != nil {
		respondError(c, err, "story", "update story")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteStory handles DELETE /api/stories/:id (author only)
func (sc *StoriesController) DeleteStory(c *gin.Context) {
	story, ok := sc.ownedStory(c, "id")
	if !ok {
		return
	}
	removed, err := sc.store.DeleteStory(story.ID)
	if err != nil {
		respondError(c, err, "story", "delete story")
		return
	}
	if !removed {
		respondNotFound(c, "story")
		return
	}
	respondSuccess(c, "story deleted")
}

// ListChapters handles GET /api/stories/:id/chapters
func (sc *StoriesController) ListChapters(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := sc.store.GetStory(id); err != nil {
		respondError(c, err, "story", "get story")
		return
	}
	chapters, err := sc.store.ListChapters(id)
	if err != nil {
		respondError(c, err, "chapters", "list chapters")
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapters": chapters})
}

// CreateChapter handles POST /api/stories/:id/chapters (author only)
func (sc *StoriesController) CreateChapter(c *gin.Context) {
	story, ok := sc.ownedStory(c, "id")
	if !ok {
		return
	}

	var req ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter := &entities.Chapter{
		StoryID:       story.ID,
		Title:         req.Title,
		Content:       req.Content,
		ChapterNumber: req.ChapterNumber,
	}
	if err := sc.store.CreateChapter(chapter); err != nil {
		respondError(c, err, "chapter", "create chapter")
		return
	}
	if _, err := sc.store.RefreshChapterCount(story.ID); err != nil {
		respondError(c, err, "story", "refresh chapter count")
		return
	}
	respondCreated(c, chapter)
}

// GetChapter handles GET /api/chapters/:id
func (sc *StoriesController) GetChapter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	chapter, err := sc.store.GetChapter(id)
	if err != nil {
		respondError(c, err, "chapter", "get chapter")
		return
	}
	c.JSON(http.StatusOK, chapter)
}

type UpdateChapterRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	ChapterNumber *int    `json:"chapter_number"`
}

// UpdateChapter handles PATCH /api/chapters/:id (author only)
func (sc *StoriesController) UpdateChapter(c *gin.Context) {
	chapter, ok := sc.ownedChapter(c)
	if !ok {
		return
	}

	var req UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := sc.store.UpdateChapter(chapter.ID, stories.ChapterUpdate{
		Title:         req.Title,
		Content:       req.Content,
		ChapterNumber: req.ChapterNumber,
	})
	if err != nil {
		respondError(c, err, "chapter", "update chapter")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteChapter handles DELETE /api/chapters/:id (author only)
func (sc *StoriesController) DeleteChapter(c *gin.Context) {
	chapter, ok := sc.ownedChapter(c)
	if !ok {
		return
	}
	removed, err := sc.store.DeleteChapter(chapter.ID)
	if err != nil {
		respondError(c, err, "chapter", "delete chapter")
		return
	}
	if !removed {
		respondNotFound(c, "chapter")
		return
	}
	if _, err := sc.store.RefreshChapterCount(chapter.StoryID); err != nil {
		respondError(c, err, "story", "refresh chapter count")
		return
	}
	respondSuccess(c, "chapter deleted")
}

// ownedStory loads the story named by param and checks the caller is its author.
func (sc *StoriesController) ownedStory(c *gin.Context, param string) (*entities.Story, bool) {
	id, ok := parseIDParam(c, param)
	if !ok {
		return nil, false
	}
	story, err := sc.store.GetStory(id)
	if err != nil {
		respondError(c, err, "story", "get story")
		return nil, false
	}
	if story.AuthorID != GetUserID(c) {
		respondForbidden(c, "only the author can modify this story")
		return nil, false
	}
	return story, true
}

func (sc *StoriesController) ownedChapter(c *gin.Context) (*entities.Chapter, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	chapter, err := sc.store.GetChapter(id)
	if err != nil {
		respondError(c, err, "chapter", "get chapter")
		return nil, false
	}
	story, err := sc.store.GetStory(chapter.StoryID)
	if err != nil {
		respondError(c, err, "story", "get story")
		return nil, false
	}
	if story.AuthorID != GetUserID(c) {
		respondForbidden(c, "only the author can modify this chapter")
		return nil, false
	}
	return chapter, true
}
