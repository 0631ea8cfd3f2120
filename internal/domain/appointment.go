package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusMissed    AppointmentStatus = "missed"
)

// ParseAppointmentStatus converts a client-supplied value into a status
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusMissed:
		return AppointmentStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown appointment status %q", ErrInvalidInput, s)
	}
}

// IsTerminal returns true for statuses without outgoing transitions
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusMissed
}

// Appointment is a patient's claim on one slot of the clinic calendar.
// Appointments are never deleted; leaving StatusScheduled releases the slot.
type Appointment struct {
	ID                 string
	PatientID          string
	PatientDisplayName string
	TreatmentID        *string
	TreatmentLabel     string
	Date               types.DateString
	Time               types.TimeString
	Status             AppointmentStatus
	CancelReason       *string
	StatusChangedBy    *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SlotKey returns the mutual-exclusion key of the appointment
func (a *Appointment) SlotKey() SlotKey {
	return SlotKey{Date: a.Date, Time: a.Time}
}

func (a *Appointment) IsScheduled() bool {
	return a.Status == StatusScheduled
}

func (a *Appointment) IsOwnedBy(patientID string) bool {
	return a.PatientID == patientID
}

// StartsAt returns the slot start in the clinic location
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return a.Date.At(a.Time, loc)
}

// CanTransitionTo checks the state machine only; permissions are checked by the caller.
func (a *Appointment) CanTransitionTo(target AppointmentStatus) error {
	if !target.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
	}
	if a.Status != StatusScheduled {
		return fmt.Errorf("%w: appointment is already %s", ErrInvalidTransition, a.Status)
	}
	return nil
}

// AppointmentsFilter selects appointments for listing
type AppointmentsFilter struct {
	PatientID   *string
	Date        *types.DateString
	FromDate    *types.DateString // inclusive
	ToDate      *types.DateString // inclusive
	Status      *AppointmentStatus
	NewestFirst bool // date and time descending
	Limit       int  // 0 = no limit
}
