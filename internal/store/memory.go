package store

import (
	"context"
	"sort"
	"sync"

	"github.com/classgrid/classgrid-api/internal/models"
)

// MemoryStore keeps every entity in mutex-guarded maps with monotonically
// increasing integer ids. It backs development setups and tests.
type MemoryStore struct {
	mu sync.RWMutex

	programs  map[int]models.Program
	teachers  map[int]models.Teacher
	courses   map[int]models.Course
	schedules map[int]models.Schedule
	actions   map[int]models.Action

	programSeq  int
	teacherSeq  int
	courseSeq   int
	scheduleSeq int
	actionSeq   int
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		programs:  make(map[int]models.Program),
		teachers:  make(map[int]models.Teacher),
		courses:   make(map[int]models.Course),
		schedules: make(map[int]models.Schedule),
		actions:   make(map[int]models.Action),
	}
}

func (s *MemoryStore) ListPrograms(ctx context.Context) ([]models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Program, 0, len(s.programs))
	for _, p := range s.programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetProgram(ctx context.Context, id int) (*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programs[id]
	if !ok {
		return nil, ErrNoRows
	}
	return &p, nil
}

func (s *MemoryStore) CreateProgram(ctx context.Context, name string) (*models.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programSeq++
	p := models.Program{ID: s.programSeq, Name: name}
	s.programs[p.ID] = p
	return &p, nil
}

func (s *MemoryStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetTeacher(ctx context.Context, id int) (*models.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teachers[id]
	if !ok {
		return nil, ErrNoRows
	}
	return &t, nil
}

func (s *MemoryStore) CreateTeacher(ctx context.Context, name string) (*models.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teacherSeq++
	t := models.Teacher{ID: s.teacherSeq, Name: name}
	s.teachers[t.ID] = t
	return &t, nil
}

func (s *MemoryStore) TeacherCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teachers), nil
}

func (s *MemoryStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, ErrNoRows
	}
	return &c, nil
}

func (s *MemoryStore) CreateCourse(ctx context.Context, name string) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courseSeq++
	c := models.Course{ID: s.courseSeq, Name: name}
	s.courses[c.ID] = c
	return &c, nil
}

func (s *MemoryStore) CourseCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses), nil
}

func (s *MemoryStore) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Schedule, 0, len(s.schedules))
	for _, sched := range s.schedules {
		out = append(out, sched)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetSchedule(ctx context.Context, id int) (*models.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.schedules[id]
	if !ok {
		return nil, ErrNoRows
	}
	return &sched, nil
}

func (s *MemoryStore) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleSeq++
	schedule.ID = s.scheduleSeq
	s.schedules[schedule.ID] = *schedule
	return nil
}

func (s *MemoryStore) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[schedule.ID]; !ok {
		return ErrNoRows
	}
	s.schedules[schedule.ID] = *schedule
	return nil
}

func (s *MemoryStore) DeleteSchedule(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[id]; !ok {
		return ErrNoRows
	}
	delete(s.schedules, id)
	return nil
}

func (s *MemoryStore) ScheduleCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.schedules), nil
}

func (s *MemoryStore) TeacherConflictExists(ctx context.Context, teacherID int, day string, timeSlot int, excludeID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sched := range s.schedules {
		if sched.ID == excludeID {
			continue
		}
		if sched.TeacherID == teacherID && sched.Day == day && sched.TimeSlot == timeSlot {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CreateAction(ctx context.Context, action *models.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionSeq++
	action.ID = s.actionSeq
	s.actions[action.ID] = *action
	return nil
}

func (s *MemoryStore) RecentActions(ctx context.Context, limit int) ([]models.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Action, 0, len(s.actions))
	for _, a := range s.actions {
		out = append(out, a)
	}
	// Timestamps are RFC3339 strings, so lexical order matches time order.
	// Ids break ties for actions recorded within the same instant.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
