package store

import (
	"context"
	"fmt"
	"time"

	"github.com/classgrid/classgrid-api/internal/models"
)

var seedPrograms = []string{"BCA", "BIT", "B.Tech in AI"}

var seedTeachers = []string{
	"Dr. Smith",
	"Dr. Johnson",
	"Prof. Williams",
	"Dr. Martinez",
	"Dr. Wilson",
	"Prof. Davis",
}

var seedCourses = []string{
	"Programming Basics",
	"Discrete Mathematics",
	"Digital Logic",
	"English",
	"Computer Networks",
	"Statistics",
	"Programming Lab",
	"Digital Logic Lab",
}

var seedSchedules = []models.Schedule{
	{ProgramID: 1, Semester: 1, CourseID: 1, TeacherID: 1, Day: "monday", TimeSlot: 1},
	{ProgramID: 1, Semester: 1, CourseID: 2, TeacherID: 2, Day: "tuesday", TimeSlot: 1},
	{ProgramID: 1, Semester: 1, CourseID: 3, TeacherID: 3, Day: "thursday", TimeSlot: 1},
	{ProgramID: 1, Semester: 1, CourseID: 4, TeacherID: 4, Day: "tuesday", TimeSlot: 2},
	{ProgramID: 1, Semester: 1, CourseID: 1, TeacherID: 1, Day: "wednesday", TimeSlot: 2},
	{ProgramID: 1, Semester: 1, CourseID: 3, TeacherID: 3, Day: "friday", TimeSlot: 2},
	{ProgramID: 1, Semester: 1, CourseID: 2, TeacherID: 2, Day: "monday", TimeSlot: 3},
	{ProgramID: 1, Semester: 1, CourseID: 4, TeacherID: 4, Day: "thursday", TimeSlot: 3},
	{ProgramID: 1, Semester: 1, CourseID: 1, TeacherID: 1, Day: "sunday", TimeSlot: 3},
	{ProgramID: 1, Semester: 1, CourseID: 5, TeacherID: 6, Day: "tuesday", TimeSlot: 4},
	{ProgramID: 1, Semester: 1, CourseID: 2, TeacherID: 2, Day: "wednesday", TimeSlot: 4},
	{ProgramID: 1, Semester: 1, CourseID: 6, TeacherID: 5, Day: "friday", TimeSlot: 4},
	{ProgramID: 1, Semester: 1, CourseID: 6, TeacherID: 5, Day: "monday", TimeSlot: 5},
	{ProgramID: 1, Semester: 1, CourseID: 5, TeacherID: 6, Day: "wednesday", TimeSlot: 5},
	{ProgramID: 1, Semester: 1, CourseID: 8, TeacherID: 3, Day: "sunday", TimeSlot: 5},
	{ProgramID: 1, Semester: 1, CourseID: 5, TeacherID: 6, Day: "thursday", TimeSlot: 6},
	{ProgramID: 1, Semester: 1, CourseID: 6, TeacherID: 5, Day: "friday", TimeSlot: 6},
}

// Seed loads the default programs, teachers, courses and a demo timetable.
// It is idempotent: a store that already holds programs is left untouched.
func Seed(ctx context.Context, s Store) error {
	existing, err := s.ListPrograms(ctx)
	if err != nil {
		return fmt.Errorf("seed: list programs: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, name := range seedPrograms {
		if _, err := s.CreateProgram(ctx, name); err != nil {
			return fmt.Errorf("seed program %q: %w", name, err)
		}
	}
	for _, name := range seedTeachers {
		if _, err := s.CreateTeacher(ctx, name); err != nil {
			return fmt.Errorf("seed teacher %q: %w", name, err)
		}
	}
	for _, name := range seedCourses {
		if _, err := s.CreateCourse(ctx, name); err != nil {
			return fmt.Errorf("seed course %q: %w", name, err)
		}
	}
	for _, sched := range seedSchedules {
		sched := sched
		if err := s.CreateSchedule(ctx, &sched); err != nil {
			return fmt.Errorf("seed schedule: %w", err)
		}
	}

	now := time.Now().UTC()
	seedActions := []models.Action{
		{Type: models.ActionTypeAdd, Description: "Added: Database Management by Dr. Smith (BCA - 3rd)", Timestamp: now.Format(time.RFC3339)},
		{Type: models.ActionTypeRemove, Description: "Removed: AI Principles by Dr. Johnson (B.Tech - 5th)", Timestamp: now.Add(-5 * time.Minute).Format(time.RFC3339)},
		{Type: models.ActionTypeModify, Description: "Modified: Changed Web Tech from Tue to Wed", Timestamp: now.Add(-10 * time.Minute).Format(time.RFC3339)},
	}
	for _, action := range seedActions {
		action := action
		if err := s.CreateAction(ctx, &action); err != nil {
			return fmt.Errorf("seed action: %w", err)
		}
	}

	return nil
}
