package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

func TestGenerateSlots_DefaultCalendar(t *testing.T) {
	cfg := DefaultCalendarConfig()

	slots := cfg.GenerateSlots("2025-06-10")

	expected := []types.TimeString{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
	}
	assert.Equal(t, expected, slots)

	for _, slot := range slots {
		inBreak := !slot.IsBefore("12:00") && slot.IsBefore("13:00")
		assert.False(t, inBreak, "slot %s falls into the break", slot)
	}
}

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name     string
		cfg      CalendarConfig
		date     types.DateString
		expected []types.TimeString
	}{
		{
			name: "overrunning last slot is dropped",
			cfg: CalendarConfig{
				WorkingHours:        TimeRange{Start: "09:00", End: "10:40"},
				SlotDurationMinutes: 30,
			},
			date:     "2025-06-10",
			expected: []types.TimeString{"09:00", "09:30", "10:00"},
		},
		{
			name: "zero-length break is ignored",
			cfg: CalendarConfig{
				WorkingHours:        TimeRange{Start: "09:00", End: "11:00"},
				BreakWindow:         TimeRange{Start: "10:00", End: "10:00"},
				SlotDurationMinutes: 60,
			},
			date:     "2025-06-10",
			expected: []types.TimeString{"09:00", "10:00"},
		},
		{
			name: "steps keep their grid after the break",
			cfg: CalendarConfig{
				WorkingHours:        TimeRange{Start: "09:00", End: "15:00"},
				BreakWindow:         TimeRange{Start: "12:00", End: "13:00"},
				SlotDurationMinutes: 45,
			},
			date:     "2025-06-10",
			expected: []types.TimeString{"09:00", "09:45", "10:30", "11:15", "13:30", "14:15"},
		},
		{
			name: "slot ending exactly at break start is kept",
			cfg: CalendarConfig{
				WorkingHours:        TimeRange{Start: "11:00", End: "13:00"},
				BreakWindow:         TimeRange{Start: "12:00", End: "12:30"},
				SlotDurationMinutes: 30,
			},
			date:     "2025-06-10",
			expected: []types.TimeString{"11:00", "11:30", "12:30"},
		},
		{
			name: "holiday yields nothing",
			cfg: CalendarConfig{
				WorkingHours:        TimeRange{Start: "09:00", End: "17:00"},
				SlotDurationMinutes: 30,
				Holidays:            []Holiday{{Date: "2025-12-25", Label: "Christmas"}},
			},
			date:     "2025-12-25",
			expected: []types.TimeString{},
		},
		{
			name: "slot longer than the day yields nothing",
			cfg: CalendarConfig{
				WorkingHours:        TimeRange{Start: "09:00", End: "10:00"},
				SlotDurationMinutes: 90,
			},
			date:     "2025-06-10",
			expected: []types.TimeString{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.GenerateSlots(tt.date))
		})
	}
}

func TestGenerateSlots_HolidayOnlyAffectsItsDate(t *testing.T) {
	cfg := DefaultCalendarConfig()
	cfg.SetHoliday("2025-06-10", "")

	assert.Empty(t, cfg.GenerateSlots("2025-06-10"))
	assert.Len(t, cfg.GenerateSlots("2025-06-11"), 14)
}

func TestIsSlotCandidate(t *testing.T) {
	cfg := DefaultCalendarConfig()

	assert.True(t, cfg.IsSlotCandidate("2025-06-10", "10:00"))
	assert.False(t, cfg.IsSlotCandidate("2025-06-10", "10:15"))
	assert.False(t, cfg.IsSlotCandidate("2025-06-10", "12:00"))
	assert.False(t, cfg.IsSlotCandidate("2025-06-10", "17:00"))
}

func TestSlotKey_String(t *testing.T) {
	assert.Equal(t, "2025-06-10_10:00", SlotKey{Date: "2025-06-10", Time: "10:00"}.String())
}
