package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classgrid/classgrid-api/internal/store"
	appErrors "github.com/classgrid/classgrid-api/pkg/errors"
	"github.com/classgrid/classgrid-api/pkg/response"
)

// SeedHandler loads default data on demand.
type SeedHandler struct {
	store store.Store
}

// NewSeedHandler constructs a new SeedHandler.
func NewSeedHandler(st store.Store) *SeedHandler {
	return &SeedHandler{store: st}
}

// Init seeds the default programs, teachers, courses and demo timetable.
// Seeding is idempotent, so repeated calls are safe.
func (h *SeedHandler) Init(c *gin.Context) {
	if err := store.Seed(c.Request.Context(), h.store); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to initialize default data"))
		return
	}
	response.Message(c, http.StatusOK, "Default data initialized")
}
