package create_appointment

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	createAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	PatientID      *string `json:"patientId,omitempty"` // Для персонала обязателен; пациент бронирует себе
	TreatmentID    *string `json:"treatmentId,omitempty"`
	TreatmentLabel *string `json:"treatmentLabel,omitempty"`
	Date           string  `json:"date"` // "2025-06-10"
	Time           string  `json:"time"` // "10:00"
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(actor domain.Actor) *createAppointment.Request {
	patientID := actor.ID
	if r.PatientID != nil && *r.PatientID != "" {
		patientID = *r.PatientID
	}

	return &createAppointment.Request{
		Actor:          actor,
		PatientID:      patientID,
		TreatmentID:    r.TreatmentID,
		TreatmentLabel: r.TreatmentLabel,
		Date:           types.DateString(r.Date),
		Time:           types.TimeString(r.Time),
	}
}
