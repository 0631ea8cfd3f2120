package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// SlotKey is the (date, time) pair that at most one scheduled appointment may occupy
type SlotKey struct {
	Date types.DateString
	Time types.TimeString
}

func (k SlotKey) String() string {
	return k.Date.String() + "_" + k.Time.String()
}

// BookedSlot is an entry of the booked slot index.
// It exists iff the referenced appointment is scheduled.
type BookedSlot struct {
	Date          types.DateString
	Time          types.TimeString
	PatientID     string
	AppointmentID string
	CreatedAt     time.Time
}

func (b *BookedSlot) Key() SlotKey {
	return SlotKey{Date: b.Date, Time: b.Time}
}

// SlotLock blocks future reservations of a slot regardless of bookings
type SlotLock struct {
	Date      types.DateString
	Time      types.TimeString
	Reason    *string
	LockedBy  string
	CreatedAt time.Time
}

func (l *SlotLock) Key() SlotKey {
	return SlotKey{Date: l.Date, Time: l.Time}
}

// GenerateSlots returns the candidate slot starts of date in ascending order.
// Slots step by SlotDurationMinutes from the opening time; a slot that would
// overrun closing time or touch the break window is skipped. Holidays yield
// no slots.
func (c *CalendarConfig) GenerateSlots(date types.DateString) []types.TimeString {
	slots := make([]types.TimeString, 0)

	if _, ok := c.IsHoliday(date); ok {
		return slots
	}

	duration := c.SlotDurationMinutes
	if duration <= 0 {
		return slots
	}

	start, err := c.WorkingHours.Start.Minutes()
	if err != nil {
		return slots
	}
	end, err := c.WorkingHours.End.Minutes()
	if err != nil {
		return slots
	}

	breakStart, breakEnd := 0, 0
	if c.HasBreak() {
		breakStart, err = c.BreakWindow.Start.Minutes()
		if err != nil {
			return slots
		}
		breakEnd, err = c.BreakWindow.End.Minutes()
		if err != nil {
			return slots
		}
	}

	for t := start; t+duration <= end; t += duration {
		if breakStart < breakEnd && t < breakEnd && t+duration > breakStart {
			continue
		}
		slot, err := types.NewTimeStringFromMinutes(t)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}

	return slots
}

// IsSlotCandidate reports whether t is one of the generated slots of date
func (c *CalendarConfig) IsSlotCandidate(date types.DateString, t types.TimeString) bool {
	for _, slot := range c.GenerateSlots(date) {
		if slot == t {
			return true
		}
	}
	return false
}

// StartsAt returns the slot start in the clinic location
func (k SlotKey) StartsAt(loc *time.Location) (time.Time, error) {
	return k.Date.At(k.Time, loc)
}
