package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classgrid/classgrid-api/internal/service"
	"github.com/classgrid/classgrid-api/pkg/response"
)

// ProgramHandler exposes the read-only program listing.
type ProgramHandler struct {
	programs *service.ProgramService
}

// NewProgramHandler constructs a new ProgramHandler.
func NewProgramHandler(programs *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

// List returns every program.
func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.programs.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs)
}
