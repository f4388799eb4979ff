package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndemidov/campusforum/internal/services"
	"github.com/ndemidov/campusforum/pkg/response"
)

// StatsHandler exposes aggregate forum counters.
type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) (*StatsHandler, error) {
	if stats == nil {
		return nil, errors.New("stats handler: stats service is required")
	}
	return &StatsHandler{stats: stats}, nil
}

// GET /api/stats (public)
func (h *StatsHandler) Snapshot(c *gin.Context) {
	snapshot, err := h.stats.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, snapshot)
}
