package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/storyshelf/internal/database/stats"
)

type StatsStore interface {
	GetAuthorStats(authorID uint) (*stats.AuthorStats, error)
}

type StatsController struct {
	store StatsStore
}

func NewStatsController(store StatsStore) *StatsController {
	return &StatsController{store: store}
}

// AuthorStats handles GET /api/authors/:id/stats
func (sc *StatsController) AuthorStats(c *gin.Context) {
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	s, err := sc.store.GetAuthorStats(authorID)
	if err != nil {
		respondError(c, err, "author", "get author stats")
		return
	}
	c.JSON(http.StatusOK, s)
}
