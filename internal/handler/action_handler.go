package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/classgrid/classgrid-api/internal/service"
	"github.com/classgrid/classgrid-api/pkg/response"
)

// ActionHandler exposes the recent-actions feed.
type ActionHandler struct {
	actions *service.ActionService
}

// NewActionHandler constructs a new ActionHandler.
func NewActionHandler(actions *service.ActionService) *ActionHandler {
	return &ActionHandler{actions: actions}
}

// Recent lists the newest audit actions first, capped by the limit param.
func (h *ActionHandler) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	actions, err := h.actions.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, actions)
}
