package transition_appointment

import (
	"context"

	transitionAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/transition_appointment"
)

type TransitionAppointmentUseCase interface {
	Execute(ctx context.Context, req *transitionAppointment.Request) (*transitionAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
