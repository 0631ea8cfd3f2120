package domain

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of them, so callers can match
// either the exact cause or the whole category with errors.Is.
var (
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidInput      = errors.New("invalid input")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

var (
	ErrSlotLocked        = fmt.Errorf("%w: slot is locked", ErrConflict)
	ErrSlotAlreadyBooked = fmt.Errorf("%w: slot is already booked", ErrConflict)

	ErrAppointmentNotFound  = fmt.Errorf("%w: appointment", ErrNotFound)
	ErrUnknownIdentity      = fmt.Errorf("%w: unknown identity", ErrNotFound)
	ErrTreatmentNotFound    = fmt.Errorf("%w: treatment", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("%w: notification", ErrNotFound)

	ErrLeadTimeViolation = fmt.Errorf("%w: too close to the appointment start", ErrForbidden)

	ErrInvalidSlot = fmt.Errorf("%w: slot is not bookable", ErrInvalidInput)
)
