package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/storyshelf/internal/database/progress"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// ProgressStore defines database operations for reading progress.
type ProgressStore interface {
	RecordProgress(in progress.Input) (*entities.ReadingProgress, error)
	GetProgress(userID, storyID uint) (*entities.ReadingProgress, error)
	ListProgressForUser(userID uint, limit int) ([]entities.ReadingProgress, error)
}

type ProgressController struct {
	store ProgressStore
}

func NewProgressController(store ProgressStore) *ProgressController {
	return &ProgressController{store: store}
}

type RecordProgressRequest struct {
	ChapterID *uint `json:"chapter_id"`
	Position  int   `json:"position"`
	Completed *bool `json:"completed"`
}

// RecordProgress handles PUT /api/stories/:id/progress
func (pc *ProgressController) RecordProgress(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	row, err := pc.store.RecordProgress(progress.Input{
		UserID:    GetUserID(c),
		StoryID:   storyID,
		ChapterID: req.ChapterID,
		Position:  req.Position,
		Completed: req.Completed,
	})
	if err != nil {
		respondError(c, err, "progress", "record progress")
		return
	}
	c.JSON(http.StatusOK, row)
}

// GetProgress handles GET /api/stories/:id/progress
func (pc *ProgressController) GetProgress(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	row, err := pc.store.GetProgress(GetUserID(c), storyID)
	if err != nil {
		respondError(c, err, "progress", "get progress")
		return
	}
	c.JSON(http.StatusOK, row)
}

// ListMine handles GET /api/me/progress?limit=N
func (pc *ProgressController) ListMine(c *gin.Context) {
	rows, err := pc.store.ListProgressForUser(GetUserID(c), parseLimit(c, 20, 100))
	if err != nil {
		respondError(c, err, "progress", "list progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": rows})
}
