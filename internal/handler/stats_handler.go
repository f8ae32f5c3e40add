package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classgrid/classgrid-api/internal/service"
	"github.com/classgrid/classgrid-api/pkg/response"
)

// StatsHandler exposes dashboard counters.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs a new StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Summary returns schedule, teacher and course counts.
func (h *StatsHandler) Summary(c *gin.Context) {
	stats, err := h.stats.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
