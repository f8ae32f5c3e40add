package models

// Schedule is a single (program, semester, course, teacher, day, slot) booking.
type Schedule struct {
	ID        int    `db:"id" json:"id"`
	ProgramID int    `db:"program_id" json:"programId"`
	Semester  int    `db:"semester" json:"semester"`
	CourseID  int    `db:"course_id" json:"courseId"`
	TeacherID int    `db:"teacher_id" json:"teacherId"`
	Day       string `db:"day" json:"day"`
	TimeSlot  int    `db:"time_slot" json:"timeSlot"`
}

// ScheduleWithDetails joins a schedule with its program, course and teacher.
// It is derived on read and never stored.
type ScheduleWithDetails struct {
	Schedule
	Program Program `json:"program"`
	Course  Course  `json:"course"`
	Teacher Teacher `json:"teacher"`
}

// Stats summarises store cardinalities for the dashboard.
type Stats struct {
	ScheduleCount int `json:"scheduleCount"`
	TeacherCount  int `json:"teacherCount"`
	CourseCount   int `json:"courseCount"`
}

// ScheduleConflictError is returned when a teacher is already booked for the
// requested day and time slot.
type ScheduleConflictError struct {
	TeacherID int    `json:"teacherId"`
	Day       string `json:"day"`
	TimeSlot  int    `json:"timeSlot"`
	Message   string `json:"message"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
