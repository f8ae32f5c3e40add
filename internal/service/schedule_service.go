package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classgrid/classgrid-api/internal/models"
	"github.com/classgrid/classgrid-api/internal/store"
	appErrors "github.com/classgrid/classgrid-api/pkg/errors"
)

const conflictMessage = "Conflict detected! The teacher is already scheduled for this time slot."

type scheduleStore interface {
	ListSchedules(ctx context.Context) ([]models.Schedule, error)
	GetSchedule(ctx context.Context, id int) (*models.Schedule, error)
	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	UpdateSchedule(ctx context.Context, schedule *models.Schedule) error
	DeleteSchedule(ctx context.Context, id int) error
	TeacherConflictExists(ctx context.Context, teacherID int, day string, timeSlot int, excludeID int) (bool, error)

	ListPrograms(ctx context.Context) ([]models.Program, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	GetProgram(ctx context.Context, id int) (*models.Program, error)
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	GetTeacher(ctx context.Context, id int) (*models.Teacher, error)

	CreateAction(ctx context.Context, action *models.Action) error
}

// ScheduleRequest carries the string-typed form fields submitted for both
// create and update. Numeric fields are coerced by the service; a malformed
// number is a validation failure.
type ScheduleRequest struct {
	ProgramID string `json:"programId" validate:"required"`
	Semester  string `json:"semester" validate:"required"`
	CourseID  string `json:"courseId" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
	Day       string `json:"day" validate:"required"`
	TimeSlot  string `json:"timeSlot" validate:"required"`
}

// ScheduleService is the sole writer of schedule state. Every successful
// write leaves the timetable free of teacher double-bookings, and every
// successful mutation appends an audit action.
type ScheduleService struct {
	store     scheduleStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	// teacherLocks serialises the check-then-write sequence per teacher so
	// concurrent writes cannot both pass the conflict check.
	teacherLocks sync.Map
}

// NewScheduleService instantiates ScheduleService. Cache and metrics may be nil.
func NewScheduleService(st scheduleStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		store:     st,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a new schedule after the teacher-conflict check passes.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleRequest) (*models.Schedule, error) {
	schedule, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}

	lock := s.teacherLock(schedule.TeacherID)
	lock.Lock()
	defer lock.Unlock()

	conflict, err := s.store.TeacherConflictExists(ctx, schedule.TeacherID, schedule.Day, schedule.TimeSlot, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
	}
	if conflict {
		return nil, s.conflictError(schedule)
	}

	if err := s.store.CreateSchedule(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}

	s.invalidateViews(ctx)
	s.recordAdd(ctx, schedule)
	return schedule, nil
}

// Update overwrites an existing schedule in place after re-checking the
// conflict invariant against every other schedule.
func (s *ScheduleService) Update(ctx context.Context, id int, req ScheduleRequest) (*models.Schedule, error) {
	schedule, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	lock := s.teacherLock(schedule.TeacherID)
	lock.Lock()
	defer lock.Unlock()

	conflict, err := s.store.TeacherConflictExists(ctx, schedule.TeacherID, schedule.Day, schedule.TimeSlot, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
	}
	if conflict {
		return nil, s.conflictError(schedule)
	}

	schedule.ID = id
	if err := s.store.UpdateSchedule(ctx, schedule); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}

	s.invalidateViews(ctx)
	if existing.Day != schedule.Day || existing.TimeSlot != schedule.TimeSlot {
		s.recordModify(ctx, existing, schedule)
	}
	return schedule, nil
}

// Delete removes a schedule and records a "remove" action.
func (s *ScheduleService) Delete(ctx context.Context, id int) error {
	existing, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	if err := s.store.DeleteSchedule(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}

	s.invalidateViews(ctx)
	s.recordRemove(ctx, existing)
	return nil
}

// List returns every schedule joined with its program, course and teacher.
func (s *ScheduleService) List(ctx context.Context) ([]models.ScheduleWithDetails, error) {
	return s.listViews(ctx, "schedules:all", func(sched models.Schedule) bool { return true })
}

// ListByProgram filters the joined view to one program.
func (s *ScheduleService) ListByProgram(ctx context.Context, programID int) ([]models.ScheduleWithDetails, error) {
	key := fmt.Sprintf("schedules:p:%d", programID)
	return s.listViews(ctx, key, func(sched models.Schedule) bool {
		return sched.ProgramID == programID
	})
}

// ListByProgramAndSemester filters the joined view to one program and semester.
func (s *ScheduleService) ListByProgramAndSemester(ctx context.Context, programID, semester int) ([]models.ScheduleWithDetails, error) {
	key := fmt.Sprintf("schedules:p:%d:s:%d", programID, semester)
	return s.listViews(ctx, key, func(sched models.Schedule) bool {
		return sched.ProgramID == programID && sched.Semester == semester
	})
}

// GetWithDetails returns the joined view for one schedule. A schedule whose
// referenced program, course or teacher is gone reads as not found.
func (s *ScheduleService) GetWithDetails(ctx context.Context, id int) (*models.ScheduleWithDetails, error) {
	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	program, err := s.store.GetProgram(ctx, schedule.ProgramID)
	if err != nil {
		return nil, s.detailLookupError(err)
	}
	course, err := s.store.GetCourse(ctx, schedule.CourseID)
	if err != nil {
		return nil, s.detailLookupError(err)
	}
	teacher, err := s.store.GetTeacher(ctx, schedule.TeacherID)
	if err != nil {
		return nil, s.detailLookupError(err)
	}

	return &models.ScheduleWithDetails{
		Schedule: *schedule,
		Program:  *program,
		Course:   *course,
		Teacher:  *teacher,
	}, nil
}

func (s *ScheduleService) detailLookupError(err error) error {
	if errors.Is(err, store.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve schedule details")
}

func (s *ScheduleService) listViews(ctx context.Context, cacheKey string, keep func(models.Schedule) bool) ([]models.ScheduleWithDetails, error) {
	var cached []models.ScheduleWithDetails
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	schedules, err := s.store.ListSchedules(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}

	programs, err := s.store.ListPrograms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	teachers, err := s.store.ListTeachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}

	programByID := make(map[int]models.Program, len(programs))
	for _, p := range programs {
		programByID[p.ID] = p
	}
	courseByID := make(map[int]models.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID] = c
	}
	teacherByID := make(map[int]models.Teacher, len(teachers))
	for _, t := range teachers {
		teacherByID[t.ID] = t
	}

	views := make([]models.ScheduleWithDetails, 0, len(schedules))
	for _, sched := range schedules {
		if !keep(sched) {
			continue
		}
		program, okP := programByID[sched.ProgramID]
		course, okC := courseByID[sched.CourseID]
		teacher, okT := teacherByID[sched.TeacherID]
		if !okP || !okC || !okT {
			// Orphaned references are dropped from joined views rather than
			// returned with empty sub-records.
			continue
		}
		views = append(views, models.ScheduleWithDetails{
			Schedule: sched,
			Program:  program,
			Course:   course,
			Teacher:  teacher,
		})
	}

	_ = s.cache.Set(ctx, cacheKey, views)
	return views, nil
}

func (s *ScheduleService) parseRequest(req ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	programID, err := parsePositiveInt("programId", req.ProgramID)
	if err != nil {
		return nil, err
	}
	semester, err := parsePositiveInt("semester", req.Semester)
	if err != nil {
		return nil, err
	}
	courseID, err := parsePositiveInt("courseId", req.CourseID)
	if err != nil {
		return nil, err
	}
	teacherID, err := parsePositiveInt("teacherId", req.TeacherID)
	if err != nil {
		return nil, err
	}
	timeSlot, err := parsePositiveInt("timeSlot", req.TimeSlot)
	if err != nil {
		return nil, err
	}

	day := strings.ToLower(strings.TrimSpace(req.Day))
	if !models.ValidDay(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day must be one of %s", strings.Join(models.Days, ", ")))
	}
	if !models.ValidTimeSlot(timeSlot) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("timeSlot must be between 1 and %d", len(models.TimeSlots)))
	}
	if !models.ValidSemester(semester) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("semester must be between %d and %d", models.MinSemester, models.MaxSemester))
	}

	return &models.Schedule{
		ProgramID: programID,
		Semester:  semester,
		CourseID:  courseID,
		TeacherID: teacherID,
		Day:       day,
		TimeSlot:  timeSlot,
	}, nil
}

func parsePositiveInt(field, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be a positive integer", field))
	}
	return value, nil
}

func (s *ScheduleService) conflictError(schedule *models.Schedule) error {
	s.metrics.RecordConflict()
	domainErr := &models.ScheduleConflictError{
		TeacherID: schedule.TeacherID,
		Day:       schedule.Day,
		TimeSlot:  schedule.TimeSlot,
		Message:   conflictMessage,
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictMessage)
}

func (s *ScheduleService) teacherLock(teacherID int) *sync.Mutex {
	v, _ := s.teacherLocks.LoadOrStore(teacherID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *ScheduleService) invalidateViews(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, "schedules:*")
}

// recordAdd appends an "add" action. A missing teacher, course or program
// skips the audit entry without failing the write.
func (s *ScheduleService) recordAdd(ctx context.Context, schedule *models.Schedule) {
	teacher, err := s.store.GetTeacher(ctx, schedule.TeacherID)
	if err != nil {
		return
	}
	course, err := s.store.GetCourse(ctx, schedule.CourseID)
	if err != nil {
		return
	}
	program, err := s.store.GetProgram(ctx, schedule.ProgramID)
	if err != nil {
		return
	}

	description := fmt.Sprintf("Added: %s by %s (%s - %d%s)",
		course.Name, teacher.Name, program.Name, schedule.Semester, models.OrdinalSuffix(schedule.Semester))
	s.appendAction(ctx, models.ActionTypeAdd, description)
}

// recordModify appends a "modify" action. The day-change clause is only
// present when the day actually changed; a slot-only change keeps the
// original narrow wording.
func (s *ScheduleService) recordModify(ctx context.Context, before, after *models.Schedule) {
	course, err := s.store.GetCourse(ctx, after.CourseID)
	if err != nil {
		return
	}

	dayChange := ""
	if before.Day != after.Day {
		dayChange = fmt.Sprintf("from %s to %s", models.TitleDay(before.Day), models.TitleDay(after.Day))
	}
	description := fmt.Sprintf("Modified: Changed %s %s", course.Name, dayChange)
	s.appendAction(ctx, models.ActionTypeModify, description)
}

// recordRemove appends a "remove" action using the pre-delete field values.
func (s *ScheduleService) recordRemove(ctx context.Context, schedule *models.Schedule) {
	teacher, err := s.store.GetTeacher(ctx, schedule.TeacherID)
	if err != nil {
		return
	}
	course, err := s.store.GetCourse(ctx, schedule.CourseID)
	if err != nil {
		return
	}
	program, err := s.store.GetProgram(ctx, schedule.ProgramID)
	if err != nil {
		return
	}

	description := fmt.Sprintf("Removed: %s by %s (%s - %d%s)",
		course.Name, teacher.Name, program.Name, schedule.Semester, models.OrdinalSuffix(schedule.Semester))
	s.appendAction(ctx, models.ActionTypeRemove, description)
}

func (s *ScheduleService) appendAction(ctx context.Context, actionType, description string) {
	action := &models.Action{
		Type:        actionType,
		Description: description,
		Timestamp:   s.now().Format(time.RFC3339),
	}
	if err := s.store.CreateAction(ctx, action); err != nil {
		s.logger.Warn("failed to append audit action",
			zap.String("type", actionType),
			zap.Error(err))
	}
}
