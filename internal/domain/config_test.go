package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalendarConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CalendarConfig)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *CalendarConfig) {}},
		{
			name:   "break removed",
			mutate: func(c *CalendarConfig) { c.BreakWindow = TimeRange{} },
		},
		{
			name:    "start after end",
			mutate:  func(c *CalendarConfig) { c.WorkingHours = TimeRange{Start: "17:00", End: "09:00"} },
			wantErr: true,
		},
		{
			name:    "start equals end",
			mutate:  func(c *CalendarConfig) { c.WorkingHours = TimeRange{Start: "09:00", End: "09:00"} },
			wantErr: true,
		},
		{
			name:    "break outside working hours",
			mutate:  func(c *CalendarConfig) { c.BreakWindow = TimeRange{Start: "16:30", End: "17:30"} },
			wantErr: true,
		},
		{
			name:    "inverted break",
			mutate:  func(c *CalendarConfig) { c.BreakWindow = TimeRange{Start: "13:00", End: "12:00"} },
			wantErr: true,
		},
		{
			name:    "half-set break",
			mutate:  func(c *CalendarConfig) { c.BreakWindow = TimeRange{Start: "12:00"} },
			wantErr: true,
		},
		{
			name:    "zero slot duration",
			mutate:  func(c *CalendarConfig) { c.SlotDurationMinutes = 0 },
			wantErr: true,
		},
		{
			name:    "malformed holiday",
			mutate:  func(c *CalendarConfig) { c.Holidays = []Holiday{{Date: "10/06/2025"}} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCalendarConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCalendarConfig_Holidays(t *testing.T) {
	cfg := DefaultCalendarConfig()

	cfg.SetHoliday("2025-12-31", "New Year's Eve")
	cfg.SetHoliday("2025-04-13", "")
	cfg.SetHoliday("2025-12-31", "Closed")

	assert.Equal(t, []Holiday{
		{Date: "2025-04-13", Label: DefaultHolidayLabel},
		{Date: "2025-12-31", Label: "Closed"},
	}, cfg.Holidays)

	assert.True(t, cfg.RemoveHoliday("2025-04-13"))
	assert.False(t, cfg.RemoveHoliday("2025-04-13"))
	_, ok := cfg.IsHoliday("2025-04-13")
	assert.False(t, ok)
}

func TestCalendarConfig_CloneIsDeep(t *testing.T) {
	cfg := DefaultCalendarConfig()
	cfg.SetHoliday("2025-12-31", "Closed")

	clone := cfg.Clone()
	clone.Holidays[0].Label = "Changed"

	assert.Equal(t, "Closed", cfg.Holidays[0].Label)
}
