package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/classgrid/classgrid-api/internal/models"
)

// PostgresStore persists entities in PostgreSQL. Ids come from serial
// columns, so they stay monotonic per entity type like the in-memory store.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a store backed by the given database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListPrograms(ctx context.Context) ([]models.Program, error) {
	const query = `SELECT id, name FROM programs ORDER BY id`
	var programs []models.Program
	if err := s.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

func (s *PostgresStore) GetProgram(ctx context.Context, id int) (*models.Program, error) {
	const query = `SELECT id, name FROM programs WHERE id = $1`
	var program models.Program
	if err := s.db.GetContext(ctx, &program, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get program: %w", err)
	}
	return &program, nil
}

func (s *PostgresStore) CreateProgram(ctx context.Context, name string) (*models.Program, error) {
	const query = `INSERT INTO programs (name) VALUES ($1) RETURNING id`
	program := models.Program{Name: name}
	if err := s.db.GetContext(ctx, &program.ID, query, name); err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}
	return &program, nil
}

func (s *PostgresStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, name FROM teachers ORDER BY id`
	var teachers []models.Teacher
	if err := s.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

func (s *PostgresStore) GetTeacher(ctx context.Context, id int) (*models.Teacher, error) {
	const query = `SELECT id, name FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := s.db.GetContext(ctx, &teacher, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	return &teacher, nil
}

func (s *PostgresStore) CreateTeacher(ctx context.Context, name string) (*models.Teacher, error) {
	const query = `INSERT INTO teachers (name) VALUES ($1) RETURNING id`
	teacher := models.Teacher{Name: name}
	if err := s.db.GetContext(ctx, &teacher.ID, query, name); err != nil {
		return nil, fmt.Errorf("create teacher: %w", err)
	}
	return &teacher, nil
}

func (s *PostgresStore) TeacherCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM teachers`)
}

func (s *PostgresStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, name FROM courses ORDER BY id`
	var courses []models.Course
	if err := s.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *PostgresStore) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	const query = `SELECT id, name FROM courses WHERE id = $1`
	var course models.Course
	if err := s.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &course, nil
}

func (s *PostgresStore) CreateCourse(ctx context.Context, name string) (*models.Course, error) {
	const query = `INSERT INTO courses (name) VALUES ($1) RETURNING id`
	course := models.Course{Name: name}
	if err := s.db.GetContext(ctx, &course.ID, query, name); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &course, nil
}

func (s *PostgresStore) CourseCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM courses`)
}

func (s *PostgresStore) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	const query = `SELECT id, program_id, semester, course_id, teacher_id, day, time_slot FROM schedules ORDER BY id`
	var schedules []models.Schedule
	if err := s.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

func (s *PostgresStore) GetSchedule(ctx context.Context, id int) (*models.Schedule, error) {
	const query = `SELECT id, program_id, semester, course_id, teacher_id, day, time_slot FROM schedules WHERE id = $1`
	var schedule models.Schedule
	if err := s.db.GetContext(ctx, &schedule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return &schedule, nil
}

func (s *PostgresStore) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	const query = `INSERT INTO schedules (program_id, semester, course_id, teacher_id, day, time_slot) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := s.db.GetContext(ctx, &schedule.ID, query,
		schedule.ProgramID, schedule.Semester, schedule.CourseID, schedule.TeacherID, schedule.Day, schedule.TimeSlot); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	const query = `UPDATE schedules SET program_id = $1, semester = $2, course_id = $3, teacher_id = $4, day = $5, time_slot = $6 WHERE id = $7`
	res, err := s.db.ExecContext(ctx, query,
		schedule.ProgramID, schedule.Semester, schedule.CourseID, schedule.TeacherID, schedule.Day, schedule.TimeSlot, schedule.ID)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update schedule rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNoRows
	}
	return nil
}

func (s *PostgresStore) DeleteSchedule(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete schedule rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNoRows
	}
	return nil
}

func (s *PostgresStore) ScheduleCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM schedules`)
}

func (s *PostgresStore) TeacherConflictExists(ctx context.Context, teacherID int, day string, timeSlot int, excludeID int) (bool, error) {
	const query = `SELECT 1 FROM schedules WHERE teacher_id = $1 AND day = $2 AND time_slot = $3 AND id <> $4 LIMIT 1`
	var one int
	if err := s.db.GetContext(ctx, &one, query, teacherID, day, timeSlot, excludeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check teacher conflict: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) CreateAction(ctx context.Context, action *models.Action) error {
	const query = `INSERT INTO actions (type, description, timestamp) VALUES ($1, $2, $3) RETURNING id`
	if err := s.db.GetContext(ctx, &action.ID, query, action.Type, action.Description, action.Timestamp); err != nil {
		return fmt.Errorf("create action: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentActions(ctx context.Context, limit int) ([]models.Action, error) {
	const query = `SELECT id, type, description, timestamp FROM actions ORDER BY timestamp DESC, id DESC LIMIT $1`
	var actions []models.Action
	if err := s.db.SelectContext(ctx, &actions, query, limit); err != nil {
		return nil, fmt.Errorf("recent actions: %w", err)
	}
	return actions, nil
}

func (s *PostgresStore) count(ctx context.Context, query string) (int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return total, nil
}
