package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/storyshelf/internal/database"
)

const (
	checkOK            = "ok"
	checkNotConfigured = "not configured"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports database reachability plus which optional
// collaborators (translator, object storage, task queue) are wired in.
// Only the database decides the status code.
type HealthController struct {
	db       *database.Database
	version  string
	optional map[string]bool
}

func NewHealthController(db *database.Database, version string, optional map[string]bool) *HealthController {
	return &HealthController{db: db, version: version, optional: optional}
}

func (h *HealthController) Status(c *gin.Context) {
	dbCheck, healthy := h.checkDatabase()

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{"database": dbCheck},
	}
	for name, wired := range h.optional {
		resp.Checks[name] = checkNotConfigured
		if wired {
			resp.Checks[name] = checkOK
		}
	}

	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

func (h *HealthController) checkDatabase() (string, bool) {
	if h.db == nil {
		return checkNotConfigured, true
	}
	if err := h.db.Ping(); err != nil {
		return "error: " + err.Error(), false
	}
	return checkOK, true
}
