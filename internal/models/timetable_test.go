package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlotGrid(t *testing.T) {
	assert.Len(t, TimeSlots, 7)
	for i, slot := range TimeSlots {
		assert.Equal(t, i+1, slot.ID)
	}
	assert.Equal(t, "6:30", TimeSlots[0].Start)
	assert.Equal(t, "7:20", TimeSlots[0].End)
	assert.Equal(t, "11:50", TimeSlots[6].Start)
	assert.Equal(t, "12:40", TimeSlots[6].End)
}

func TestValidDay(t *testing.T) {
	for _, day := range Days {
		assert.True(t, ValidDay(day), day)
	}
	assert.False(t, ValidDay("saturday"))
	assert.False(t, ValidDay("Monday"))
	assert.False(t, ValidDay(""))
}

func TestValidTimeSlot(t *testing.T) {
	assert.False(t, ValidTimeSlot(0))
	assert.True(t, ValidTimeSlot(1))
	assert.True(t, ValidTimeSlot(7))
	assert.False(t, ValidTimeSlot(8))
}

func TestValidSemester(t *testing.T) {
	assert.False(t, ValidSemester(0))
	assert.True(t, ValidSemester(1))
	assert.True(t, ValidSemester(8))
	assert.False(t, ValidSemester(9))
}

func TestOrdinalSuffix(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "st"},
		{2, "nd"},
		{3, "rd"},
		{4, "th"},
		{8, "th"},
		// The rule is positional only; teens and higher ordinals all get th.
		{11, "th"},
		{21, "th"},
		{23, "th"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, OrdinalSuffix(tc.n), "n=%d", tc.n)
	}
}

func TestTitleDay(t *testing.T) {
	assert.Equal(t, "Monday", TitleDay("monday"))
	assert.Equal(t, "Sunday", TitleDay("sunday"))
	assert.Equal(t, "", TitleDay(""))
}
