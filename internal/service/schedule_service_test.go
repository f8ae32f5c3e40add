package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classgrid/classgrid-api/internal/models"
	"github.com/classgrid/classgrid-api/internal/store"
	appErrors "github.com/classgrid/classgrid-api/pkg/errors"
)

type mockScheduleStore struct {
	mu        sync.Mutex
	programs  map[int]models.Program
	courses   map[int]models.Course
	teachers  map[int]models.Teacher
	schedules map[int]models.Schedule
	actions   []models.Action
	seq       int

	conflictErr error
	actionErr   error
}

func newMockScheduleStore() *mockScheduleStore {
	return &mockScheduleStore{
		programs: map[int]models.Program{
			1: {ID: 1, Name: "BCA"},
			2: {ID: 2, Name: "BIT"},
		},
		courses: map[int]models.Course{
			1: {ID: 1, Name: "Programming Basics"},
			2: {ID: 2, Name: "English"},
		},
		teachers: map[int]models.Teacher{
			1: {ID: 1, Name: "Dr. Smith"},
			2: {ID: 2, Name: "Dr. Johnson"},
		},
		schedules: make(map[int]models.Schedule),
	}
}

func (m *mockScheduleStore) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Schedule, 0, len(m.schedules))
	for i := 1; i <= m.seq; i++ {
		if sched, ok := m.schedules[i]; ok {
			out = append(out, sched)
		}
	}
	return out, nil
}

func (m *mockScheduleStore) GetSchedule(ctx context.Context, id int) (*models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sched, ok := m.schedules[id]
	if !ok {
		return nil, store.ErrNoRows
	}
	return &sched, nil
}

func (m *mockScheduleStore) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	schedule.ID = m.seq
	m.schedules[schedule.ID] = *schedule
	return nil
}

func (m *mockScheduleStore) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[schedule.ID]; !ok {
		return store.ErrNoRows
	}
	m.schedules[schedule.ID] = *schedule
	return nil
}

func (m *mockScheduleStore) DeleteSchedule(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[id]; !ok {
		return store.ErrNoRows
	}
	delete(m.schedules, id)
	return nil
}

func (m *mockScheduleStore) TeacherConflictExists(ctx context.Context, teacherID int, day string, timeSlot int, excludeID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflictErr != nil {
		return false, m.conflictErr
	}
	for _, sched := range m.schedules {
		if sched.ID == excludeID {
			continue
		}
		if sched.TeacherID == teacherID && sched.Day == day && sched.TimeSlot == timeSlot {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockScheduleStore) ListPrograms(ctx context.Context) ([]models.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Program, 0, len(m.programs))
	for _, p := range m.programs {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockScheduleStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockScheduleStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockScheduleStore) GetProgram(ctx context.Context, id int) (*models.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.programs[id]
	if !ok {
		return nil, store.ErrNoRows
	}
	return &p, nil
}

func (m *mockScheduleStore) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, store.ErrNoRows
	}
	return &c, nil
}

func (m *mockScheduleStore) GetTeacher(ctx context.Context, id int) (*models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teachers[id]
	if !ok {
		return nil, store.ErrNoRows
	}
	return &t, nil
}

func (m *mockScheduleStore) CreateAction(ctx context.Context, action *models.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.actionErr != nil {
		return m.actionErr
	}
	action.ID = len(m.actions) + 1
	m.actions = append(m.actions, *action)
	return nil
}

func (m *mockScheduleStore) recordedActions() []models.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Action, len(m.actions))
	copy(out, m.actions)
	return out
}

func newTestScheduleService(st scheduleStore) *ScheduleService {
	svc := NewScheduleService(st, nil, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }
	return svc
}

func validRequest() ScheduleRequest {
	return ScheduleRequest{
		ProgramID: "1",
		Semester:  "1",
		CourseID:  "1",
		TeacherID: "1",
		Day:       "monday",
		TimeSlot:  "1",
	}
}

func requireAppError(t *testing.T, err error, code string, status int) *appErrors.Error {
	t.Helper()
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.Status)
	return appErr
}

func TestScheduleServiceCreate(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	req := validRequest()
	req.Day = "Monday" // mixed case is normalised

	schedule, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, schedule.ID)
	assert.Equal(t, "monday", schedule.Day)
	assert.Equal(t, 1, schedule.TimeSlot)

	actions := st.recordedActions()
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionTypeAdd, actions[0].Type)
	assert.Equal(t, "Added: Programming Basics by Dr. Smith (BCA - 1st)", actions[0].Description)
	assert.Equal(t, "2026-03-02T10:00:00Z", actions[0].Timestamp)
}

func TestScheduleServiceCreateConflict(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	dup := validRequest()
	dup.CourseID = "2"
	_, err = svc.Create(context.Background(), dup)

	appErr := requireAppError(t, err, "SCHEDULE_CONFLICT", 409)
	assert.Equal(t, "Conflict detected! The teacher is already scheduled for this time slot.", appErr.Message)

	var conflict *models.ScheduleConflictError
	assert.ErrorAs(t, err, &conflict)

	// The rejected write must leave no trace.
	schedules, _ := st.ListSchedules(context.Background())
	assert.Len(t, schedules, 1)
	assert.Len(t, st.recordedActions(), 1)
}

func TestScheduleServiceCreateAllowsOtherTeacherSameSlot(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	other := validRequest()
	other.TeacherID = "2"
	other.CourseID = "2"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)
}

func TestScheduleServiceCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScheduleRequest)
		message string
	}{
		{
			name:    "missing field",
			mutate:  func(r *ScheduleRequest) { r.TeacherID = "" },
			message: "invalid schedule payload",
		},
		{
			name:    "non numeric program id",
			mutate:  func(r *ScheduleRequest) { r.ProgramID = "abc" },
			message: "programId must be a positive integer",
		},
		{
			name:    "zero teacher id",
			mutate:  func(r *ScheduleRequest) { r.TeacherID = "0" },
			message: "teacherId must be a positive integer",
		},
		{
			name:    "negative course id",
			mutate:  func(r *ScheduleRequest) { r.CourseID = "-4" },
			message: "courseId must be a positive integer",
		},
		{
			name:    "unknown day",
			mutate:  func(r *ScheduleRequest) { r.Day = "saturday" },
			message: "day must be one of monday, tuesday, wednesday, thursday, friday, sunday",
		},
		{
			name:    "slot out of range",
			mutate:  func(r *ScheduleRequest) { r.TimeSlot = "8" },
			message: "timeSlot must be between 1 and 7",
		},
		{
			name:    "semester out of range",
			mutate:  func(r *ScheduleRequest) { r.Semester = "9" },
			message: "semester must be between 1 and 8",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newMockScheduleStore()
			svc := newTestScheduleService(st)

			req := validRequest()
			tc.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			appErr := requireAppError(t, err, "VALIDATION_ERROR", 400)
			assert.Equal(t, tc.message, appErr.Message)
			assert.Empty(t, st.recordedActions())
		})
	}
}

func TestScheduleServiceCreateConflictCheckFailure(t *testing.T) {
	st := newMockScheduleStore()
	st.conflictErr = errors.New("connection reset")
	svc := newTestScheduleService(st)

	_, err := svc.Create(context.Background(), validRequest())
	requireAppError(t, err, "INTERNAL_ERROR", 500)
}

func TestScheduleServiceUpdateKeepsOwnSlot(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// Re-submitting the same day and slot must not conflict with itself.
	updated, err := svc.Update(context.Background(), created.ID, validRequest())
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	// Nothing changed, so no modify action is recorded.
	actions := st.recordedActions()
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionTypeAdd, actions[0].Type)
}

func TestScheduleServiceUpdateConflictsWithOtherSchedule(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.Day = "tuesday"
	created, err := svc.Create(context.Background(), second)
	require.NoError(t, err)

	// Moving the second booking onto the first one's slot must be rejected.
	move := validRequest()
	_, err = svc.Update(context.Background(), created.ID, move)
	requireAppError(t, err, "SCHEDULE_CONFLICT", 409)

	current, err := st.GetSchedule(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "tuesday", current.Day)
}

func TestScheduleServiceUpdateRecordsDayChange(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	moved := validRequest()
	moved.Day = "tuesday"
	_, err = svc.Update(context.Background(), created.ID, moved)
	require.NoError(t, err)

	actions := st.recordedActions()
	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionTypeModify, actions[1].Type)
	assert.Equal(t, "Modified: Changed Programming Basics from Monday to Tuesday", actions[1].Description)
}

func TestScheduleServiceUpdateSlotOnlyChange(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	moved := validRequest()
	moved.TimeSlot = "2"
	_, err = svc.Update(context.Background(), created.ID, moved)
	require.NoError(t, err)

	actions := st.recordedActions()
	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionTypeModify, actions[1].Type)
	// A slot-only change keeps the day clause out of the description.
	assert.Equal(t, "Modified: Changed Programming Basics ", actions[1].Description)
}

func TestScheduleServiceUpdateNotFound(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	_, err := svc.Update(context.Background(), 99, validRequest())
	appErr := requireAppError(t, err, "NOT_FOUND", 404)
	assert.Equal(t, "schedule not found", appErr.Message)
}

func TestScheduleServiceDelete(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = st.GetSchedule(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrNoRows)

	actions := st.recordedActions()
	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionTypeRemove, actions[1].Type)
	assert.Equal(t, "Removed: Programming Basics by Dr. Smith (BCA - 1st)", actions[1].Description)

	err = svc.Delete(context.Background(), created.ID)
	requireAppError(t, err, "NOT_FOUND", 404)
}

func TestScheduleServiceDeleteSkipsAuditWhenTeacherGone(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	sched := &models.Schedule{ProgramID: 1, Semester: 1, CourseID: 1, TeacherID: 99, Day: "monday", TimeSlot: 1}
	require.NoError(t, st.CreateSchedule(context.Background(), sched))

	// The delete itself succeeds even though the audit lookup misses.
	require.NoError(t, svc.Delete(context.Background(), sched.ID))
	assert.Empty(t, st.recordedActions())
}

func TestScheduleServiceCreateToleratesAuditFailure(t *testing.T) {
	st := newMockScheduleStore()
	st.actionErr = errors.New("actions table unavailable")
	svc := newTestScheduleService(st)

	schedule, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, schedule.ID)
}

func TestScheduleServiceListSkipsOrphans(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	orphan := &models.Schedule{ProgramID: 1, Semester: 1, CourseID: 99, TeacherID: 2, Day: "tuesday", TimeSlot: 1}
	require.NoError(t, st.CreateSchedule(context.Background(), orphan))

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Programming Basics", views[0].Course.Name)
	assert.Equal(t, "Dr. Smith", views[0].Teacher.Name)
	assert.Equal(t, "BCA", views[0].Program.Name)
}

func TestScheduleServiceListFilters(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	first := validRequest()
	_, err := svc.Create(context.Background(), first)
	require.NoError(t, err)

	second := validRequest()
	second.ProgramID = "2"
	second.Semester = "3"
	second.Day = "tuesday"
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byProgram, err := svc.ListByProgram(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, byProgram, 1)
	assert.Equal(t, "BIT", byProgram[0].Program.Name)

	bySemester, err := svc.ListByProgramAndSemester(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Len(t, bySemester, 1)

	empty, err := svc.ListByProgramAndSemester(context.Background(), 2, 4)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestScheduleServiceGetWithDetails(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	view, err := svc.GetWithDetails(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Programming Basics", view.Course.Name)

	_, err = svc.GetWithDetails(context.Background(), 99)
	requireAppError(t, err, "NOT_FOUND", 404)

	// An orphaned reference reads as not found rather than a partial view.
	orphan := &models.Schedule{ProgramID: 1, Semester: 1, CourseID: 1, TeacherID: 99, Day: "friday", TimeSlot: 2}
	require.NoError(t, st.CreateSchedule(context.Background(), orphan))
	_, err = svc.GetWithDetails(context.Background(), orphan.ID)
	requireAppError(t, err, "NOT_FOUND", 404)
}

func TestScheduleServiceConcurrentCreatesSingleWinner(t *testing.T) {
	st := newMockScheduleStore()
	svc := newTestScheduleService(st)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := validRequest()
			req.CourseID = fmt.Sprintf("%d", 1+n%2)
			_, err := svc.Create(context.Background(), req)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, "SCHEDULE_CONFLICT", appErr.Code)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	schedules, _ := st.ListSchedules(context.Background())
	assert.Len(t, schedules, 1)
}
