package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := req.Actor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if strings.TrimSpace(req.PatientID) == "" {
		return fmt.Errorf("%w: patientId is required", ErrInvalidInput)
	}

	if err := req.Date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.TreatmentID == nil {
		if req.TreatmentLabel == nil || strings.TrimSpace(*req.TreatmentLabel) == "" {
			return fmt.Errorf("%w: treatmentId or treatmentLabel is required", ErrInvalidInput)
		}
		if len(*req.TreatmentLabel) > domain.MaxTreatmentLabelLength {
			return fmt.Errorf("%w: treatmentLabel must not exceed %d characters", ErrInvalidInput, domain.MaxTreatmentLabelLength)
		}
	}

	return nil
}

// authorize пациент бронирует только для себя, сотрудник - для любого пациента
func authorize(actor domain.Actor, patientID string) error {
	if actor.IsStaff() {
		return nil
	}
	if actor.IsPatient() && actor.ID == patientID {
		return nil
	}
	return fmt.Errorf("%w: %s %s cannot book for patient %s", domain.ErrForbidden, actor.Role, actor.ID, patientID)
}

// validateSlot слот должен быть кандидатом календаря и начинаться строго в будущем
func validateSlot(calendar *domain.CalendarConfig, key domain.SlotKey, now time.Time) error {
	if !calendar.IsSlotCandidate(key.Date, key.Time) {
		return fmt.Errorf("%w: %s is not a slot of the clinic calendar", domain.ErrInvalidSlot, key)
	}

	start, err := key.StartsAt(now.Location())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSlot, err)
	}
	if !start.After(now) {
		return fmt.Errorf("%w: %s has already started", domain.ErrInvalidSlot, key)
	}

	return nil
}
