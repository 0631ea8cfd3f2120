package update_calendar

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/calendar/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type CalendarService interface {
	Update(ctx context.Context, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error)
	AddHoliday(ctx context.Context, actor domain.Actor, date types.DateString, label string) (*models.CalendarResponse, error)
	RemoveHoliday(ctx context.Context, actor domain.Actor, date types.DateString) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
