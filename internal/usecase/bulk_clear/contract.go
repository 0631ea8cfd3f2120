package bulk_clear

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/transition_appointment"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// Transitioner интерфейс use case смены статуса
type Transitioner interface {
	Execute(ctx context.Context, req *transition_appointment.Request) (*transition_appointment.Response, error)
}

// Metrics счетчик массовой очистки
type Metrics interface {
	AddBulkCleared(target string, count int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
