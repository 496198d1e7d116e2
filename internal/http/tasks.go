package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/storyshelf/internal/database/maintenance"
	"github.com/mrlokans/storyshelf/internal/tasks"
	"github.com/mrlokans/storyshelf/internal/translation"
)

// TaskClient is the subset of tasks.Client used by the controller.
type TaskClient interface {
	TaskQueue
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	client  TaskClient
	cleaner tasks.OrphanCleaner
}

// NewTasksController creates a new TasksController. client may be nil when the
// task queue is disabled; cleanup then runs inline.
func NewTasksController(client TaskClient, cleaner tasks.OrphanCleaner) *TasksController {
	return &TasksController{client: client, cleaner: cleaner}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "translate_story",
			Description: "Translate a story and all of its chapters into one language",
			Queue:       tasks.TranslateStoryTask{}.Config().Name,
		},
		{
			Type:        "cleanup_orphans",
			Description: "Remove rows that reference deleted stories, chapters, users or recordings",
			Queue:       tasks.CleanupOrphansTask{}.Config().Name,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if tc.client == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue unavailable", Code: "queue_unavailable"})
		return
	}
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusName(status),
	})
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// StoryID and Language are required for translate_story
	StoryID  uint   `json:"story_id,omitempty"`
	Language string `json:"language,omitempty"`
}

// RunTask handles POST /api/tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	if tc.client == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue unavailable", Code: "queue_unavailable"})
		return
	}
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	var task backlite.Task
	switch taskType {
	case "translate_story":
		if req.StoryID == 0 {
			respondBadRequest(c, "story_id is required for translate_story task")
			return
		}
		lang, err := translation.NormalizeLanguage(req.Language)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		task = tasks.TranslateStoryTask{StoryID: req.StoryID, Language: lang}

	case "cleanup_orphans":
		task = tasks.CleanupOrphansTask{}

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	ids, err := tc.client.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": ids[0],
		"type":    taskType,
		"message": "task enqueued",
	})
}

// CleanupResponse reports rows removed (and rows detached from deleted
// chapters) by an inline orphan cleanup.
type CleanupResponse struct {
	Deleted  map[string]int64 `json:"deleted"`
	Detached map[string]int64 `json:"detached,omitempty"`
	Total    int64            `json:"total"`
}

// RunCleanup handles POST /api/admin/cleanup and removes orphans immediately.
func (tc *TasksController) RunCleanup(c *gin.Context) {
	report, err := tc.cleaner.DeleteOrphans()
	if err != nil {
		respondInternalError(c, err, "cleanup orphans")
		return
	}
	c.JSON(http.StatusOK, cleanupResponse(report))
}

func cleanupResponse(report maintenance.Report) CleanupResponse {
	return CleanupResponse{Deleted: report.Deleted, Detached: report.Detached, Total: report.Total()}
}
