package transition_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.AppointmentID) == "" {
		return fmt.Errorf("%w: appointmentId is required", ErrInvalidInput)
	}

	if err := req.Actor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := domain.ParseAppointmentStatus(string(req.Target)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	return nil
}

// authorize проверяет права до проверки состояния записи:
// пациент не узнает статус чужой записи.
func authorize(actor domain.Actor, appt *domain.Appointment, target domain.AppointmentStatus) error {
	if actor.IsPatient() && !appt.IsOwnedBy(actor.ID) {
		return fmt.Errorf("%w: appointment %s belongs to another patient", domain.ErrForbidden, appt.ID)
	}

	switch target {
	case domain.StatusCompleted:
		if !actor.IsStaff() {
			return fmt.Errorf("%w: only staff can complete appointments", domain.ErrForbidden)
		}
	case domain.StatusCancelled:
		if !actor.IsStaff() && !actor.IsPatient() {
			return fmt.Errorf("%w: %s cannot cancel appointments", domain.ErrForbidden, actor.Role)
		}
	case domain.StatusMissed:
		if !actor.IsSystem() {
			return fmt.Errorf("%w: appointments are marked missed by the system only", domain.ErrForbidden)
		}
	}

	return nil
}

// validateTiming проверяет ограничения по времени начала приема
func validateTiming(actor domain.Actor, target domain.AppointmentStatus, start, now time.Time, leadTime time.Duration) error {
	switch target {
	case domain.StatusMissed:
		if !start.Before(now) {
			return fmt.Errorf("%w: appointment has not started yet", domain.ErrInvalidTransition)
		}
	case domain.StatusCancelled:
		if actor.IsPatient() && leadTime > 0 && start.Sub(now) < leadTime {
			return fmt.Errorf("%w: cancellation requires at least %s before the start", domain.ErrLeadTimeViolation, leadTime)
		}
	}
	return nil
}

// cancelReason причина отмены: переданная или по умолчанию для роли
func cancelReason(actor domain.Actor, reason *string, policy Policy) string {
	if reason != nil && strings.TrimSpace(*reason) != "" {
		return strings.TrimSpace(*reason)
	}
	if actor.IsPatient() {
		return policy.PatientCancelReason
	}
	return policy.ClinicCancelReason
}
