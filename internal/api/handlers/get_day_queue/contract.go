package get_day_queue

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type AppointmentService interface {
	ListByDate(ctx context.Context, actor domain.Actor, date types.DateString, status *domain.AppointmentStatus) (*models.AppointmentListResponse, error)
	ListUpcoming(ctx context.Context, actor domain.Actor) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
