package store

import (
	"context"
	"errors"

	"github.com/classgrid/classgrid-api/internal/models"
)

// ErrNoRows is returned when a lookup targets a record that does not exist.
// Both backends normalise their miss condition to this sentinel.
var ErrNoRows = errors.New("store: no rows")

// Store is the persistence contract for every entity type. The in-memory and
// PostgreSQL implementations are interchangeable behind it; all schedule
// writes are expected to go through the schedule service, which enforces the
// teacher-conflict invariant before calling into the store.
type Store interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, id int) (*models.Program, error)
	CreateProgram(ctx context.Context, name string) (*models.Program, error)

	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	GetTeacher(ctx context.Context, id int) (*models.Teacher, error)
	CreateTeacher(ctx context.Context, name string) (*models.Teacher, error)
	TeacherCount(ctx context.Context) (int, error)

	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	CreateCourse(ctx context.Context, name string) (*models.Course, error)
	CourseCount(ctx context.Context) (int, error)

	ListSchedules(ctx context.Context) ([]models.Schedule, error)
	GetSchedule(ctx context.Context, id int) (*models.Schedule, error)
	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	UpdateSchedule(ctx context.Context, schedule *models.Schedule) error
	DeleteSchedule(ctx context.Context, id int) error
	ScheduleCount(ctx context.Context) (int, error)

	// TeacherConflictExists reports whether any schedule other than excludeID
	// books the teacher at the given day and slot. Pass excludeID 0 to check
	// against every schedule.
	TeacherConflictExists(ctx context.Context, teacherID int, day string, timeSlot int, excludeID int) (bool, error)

	CreateAction(ctx context.Context, action *models.Action) error
	RecentActions(ctx context.Context, limit int) ([]models.Action, error)
}
