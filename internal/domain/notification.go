package domain

import (
	"fmt"
	"time"
)

// Notification is a recorded intent to inform a user about an event.
// Delivery mechanics belong to the sinks.
type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Body        string
	Read        bool
	CreatedAt   time.Time
}

func NewBookingConfirmedNotification(a *Appointment) Notification {
	return Notification{
		RecipientID: a.PatientID,
		Title:       "Booking confirmed",
		Body: fmt.Sprintf("Your appointment for %s on %s at %s is confirmed.",
			a.TreatmentLabel, a.Date, a.Time),
	}
}

func NewBookingCancelledNotification(a *Appointment, reason string) Notification {
	return Notification{
		RecipientID: a.PatientID,
		Title:       "Booking cancelled",
		Body: fmt.Sprintf("Your appointment on %s at %s was cancelled. Reason: %s",
			a.Date, a.Time, reason),
	}
}

func NewVisitCompletedNotification(a *Appointment) Notification {
	return Notification{
		RecipientID: a.PatientID,
		Title:       "Visit completed",
		Body:        fmt.Sprintf("Thank you for visiting us on %s.", a.Date),
	}
}
