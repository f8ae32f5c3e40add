package models

import "strings"

// TimeSlot describes one window of the daily grid.
type TimeSlot struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeSlots is the fixed ordered list of teaching windows.
var TimeSlots = []TimeSlot{
	{ID: 1, Start: "6:30", End: "7:20"},
	{ID: 2, Start: "7:20", End: "8:10"},
	{ID: 3, Start: "8:10", End: "9:00"},
	{ID: 4, Start: "9:20", End: "10:10"},
	{ID: 5, Start: "10:10", End: "11:00"},
	{ID: 6, Start: "11:00", End: "11:50"},
	{ID: 7, Start: "11:50", End: "12:40"},
}

// Days is the fixed 6-day teaching week. Saturday is intentionally absent.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "sunday"}

// MinSemester and MaxSemester bound the valid semester range.
const (
	MinSemester = 1
	MaxSemester = 8
)

// ValidDay reports whether day is one of the recognised day tokens.
func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// ValidTimeSlot reports whether id references a known time slot.
func ValidTimeSlot(id int) bool {
	return id >= 1 && id <= len(TimeSlots)
}

// ValidSemester reports whether the semester number is within range.
func ValidSemester(semester int) bool {
	return semester >= MinSemester && semester <= MaxSemester
}

// OrdinalSuffix returns the suffix used in audit descriptions. The rule is
// deliberately simple: 1, 2 and 3 get st/nd/rd, everything else gets th.
func OrdinalSuffix(n int) string {
	switch n {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// TitleDay capitalises the first letter of a day token for display.
func TitleDay(day string) string {
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + day[1:]
}
