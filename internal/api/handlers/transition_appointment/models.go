package transition_appointment

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	transitionAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/transition_appointment"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Status string  `json:"status"` // completed | cancelled | missed
	Reason *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *TransitionRequest) ToUseCaseRequest(appointmentID string, actor domain.Actor) (*transitionAppointment.Request, error) {
	target, err := domain.ParseAppointmentStatus(r.Status)
	if err != nil {
		return nil, err
	}

	return &transitionAppointment.Request{
		AppointmentID: appointmentID,
		Target:        target,
		Actor:         actor,
		Reason:        r.Reason,
	}, nil
}
