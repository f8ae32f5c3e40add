package handler

import "github.com/gin-gonic/gin"

// Handlers groups every route handler for registration.
type Handlers struct {
	Programs  *ProgramHandler
	Teachers  *TeacherHandler
	Courses   *CourseHandler
	Schedules *ScheduleHandler
	Actions   *ActionHandler
	Stats     *StatsHandler
	Seed      *SeedHandler
}

// RegisterRoutes mounts the API surface on the given router group.
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	api.GET("/programs", h.Programs.List)

	api.GET("/teachers", h.Teachers.List)
	api.POST("/teachers", h.Teachers.Create)

	api.GET("/courses", h.Courses.List)
	api.POST("/courses", h.Courses.Create)

	api.GET("/schedules", h.Schedules.List)
	api.GET("/schedules/:id", h.Schedules.Get)
	api.POST("/schedules", h.Schedules.Create)
	api.PUT("/schedules/:id", h.Schedules.Update)
	api.DELETE("/schedules/:id", h.Schedules.Delete)

	api.GET("/exports/schedules", h.Schedules.Export)

	api.GET("/actions", h.Actions.Recent)
	api.GET("/stats", h.Stats.Summary)

	api.POST("/init", h.Seed.Init)
}
