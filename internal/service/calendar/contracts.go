package calendar

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// CalendarRepository интерфейс репозитория календаря клиники
type CalendarRepository interface {
	Get(ctx context.Context) (*domain.CalendarConfig, error)
	GetForUpdate(ctx context.Context) (*domain.CalendarConfig, error)
	Save(ctx context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
