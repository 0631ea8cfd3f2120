package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// TimeRange is a half-open time-of-day interval [Start, End)
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// IsEmpty reports a zero-length (or unset) range
func (r TimeRange) IsEmpty() bool {
	return r.Start == r.End
}

// Holiday is a closed calendar day
type Holiday struct {
	Date  types.DateString
	Label string
}

// CalendarConfig is the clinic-wide singleton calendar.
// WorkingHours.Start < WorkingHours.End; BreakWindow is empty or lies inside WorkingHours.
type CalendarConfig struct {
	WorkingHours        TimeRange
	BreakWindow         TimeRange
	SlotDurationMinutes int
	Holidays            []Holiday // sorted by date, unique
	UpdatedAt           time.Time
}

// DefaultCalendarConfig returns the calendar used before an administrator saves one
func DefaultCalendarConfig() *CalendarConfig {
	return &CalendarConfig{
		WorkingHours:        TimeRange{Start: DefaultWorkingHoursStart, End: DefaultWorkingHoursEnd},
		BreakWindow:         TimeRange{Start: DefaultBreakStart, End: DefaultBreakEnd},
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		Holidays:            []Holiday{},
	}
}

// Clone returns a deep copy
func (c *CalendarConfig) Clone() *CalendarConfig {
	clone := *c
	clone.Holidays = make([]Holiday, len(c.Holidays))
	copy(clone.Holidays, c.Holidays)
	return &clone
}

// HasBreak reports whether a non-empty break window is configured
func (c *CalendarConfig) HasBreak() bool {
	return !c.BreakWindow.IsEmpty()
}

// IsHoliday returns the holiday entry for date, if any
func (c *CalendarConfig) IsHoliday(date types.DateString) (Holiday, bool) {
	for _, h := range c.Holidays {
		if h.Date == date {
			return h, true
		}
	}
	return Holiday{}, false
}

// SetHoliday adds a holiday or relabels an existing one
func (c *CalendarConfig) SetHoliday(date types.DateString, label string) {
	if label == "" {
		label = DefaultHolidayLabel
	}
	for i := range c.Holidays {
		if c.Holidays[i].Date == date {
			c.Holidays[i].Label = label
			return
		}
	}
	c.Holidays = append(c.Holidays, Holiday{Date: date, Label: label})
	c.NormalizeHolidays()
}

// RemoveHoliday deletes the holiday for date and reports whether it existed
func (c *CalendarConfig) RemoveHoliday(date types.DateString) bool {
	for i := range c.Holidays {
		if c.Holidays[i].Date == date {
			c.Holidays = append(c.Holidays[:i], c.Holidays[i+1:]...)
			return true
		}
	}
	return false
}

// NormalizeHolidays sorts holidays by date, fills empty labels and drops duplicates (last one wins)
func (c *CalendarConfig) NormalizeHolidays() {
	byDate := make(map[types.DateString]string, len(c.Holidays))
	for _, h := range c.Holidays {
		label := h.Label
		if label == "" {
			label = DefaultHolidayLabel
		}
		byDate[h.Date] = label
	}

	holidays := make([]Holiday, 0, len(byDate))
	for date, label := range byDate {
		holidays = append(holidays, Holiday{Date: date, Label: label})
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	c.Holidays = holidays
}

// Validate checks the calendar invariants
func (c *CalendarConfig) Validate() error {
	start, err := c.WorkingHours.Start.Minutes()
	if err != nil {
		return fmt.Errorf("%w: working hours start: %v", ErrInvalidInput, err)
	}
	end, err := c.WorkingHours.End.Minutes()
	if err != nil {
		return fmt.Errorf("%w: working hours end: %v", ErrInvalidInput, err)
	}
	if start >= end {
		return fmt.Errorf("%w: working hours start must be before end", ErrInvalidInput)
	}

	if c.SlotDurationMinutes < MinSlotDurationMinutes || c.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}

	if c.HasBreak() {
		breakStart, err := c.BreakWindow.Start.Minutes()
		if err != nil {
			return fmt.Errorf("%w: break start: %v", ErrInvalidInput, err)
		}
		breakEnd, err := c.BreakWindow.End.Minutes()
		if err != nil {
			return fmt.Errorf("%w: break end: %v", ErrInvalidInput, err)
		}
		if breakStart >= breakEnd {
			return fmt.Errorf("%w: break start must be before break end", ErrInvalidInput)
		}
		if breakStart < start || breakEnd > end {
			return fmt.Errorf("%w: break window must lie within working hours", ErrInvalidInput)
		}
	}

	for _, h := range c.Holidays {
		if err := h.Date.Validate(); err != nil {
			return fmt.Errorf("%w: holiday date: %v", ErrInvalidInput, err)
		}
		if len(h.Label) > MaxHolidayLabelLength {
			return fmt.Errorf("%w: holiday label is too long", ErrInvalidInput)
		}
	}

	return nil
}
