package transition_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Policy правила отмены записей
type Policy struct {
	// CancelLeadTime минимальный запас до начала приема для отмены пациентом; 0 - без ограничения
	CancelLeadTime      time.Duration
	ClinicCancelReason  string
	PatientCancelReason string
}

// DefaultPolicy правила по умолчанию
func DefaultPolicy() Policy {
	return Policy{
		CancelLeadTime:      domain.DefaultCancelLeadTimeMinutes * time.Minute,
		ClinicCancelReason:  domain.DefaultClinicCancelReason,
		PatientCancelReason: domain.DefaultPatientCancelReason,
	}
}

// Request модель запроса на смену статуса
type Request struct {
	AppointmentID string
	Target        domain.AppointmentStatus
	Actor         domain.Actor
	Reason        *string // Только для отмены
}

// Response модель ответа с обновленной записью
type Response struct {
	Appointment *domain.Appointment
}
