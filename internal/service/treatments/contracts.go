package treatments

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// TreatmentRepository интерфейс репозитория процедур
type TreatmentRepository interface {
	List(ctx context.Context, includeInactive bool) ([]*domain.Treatment, error)
	GetByID(ctx context.Context, id string) (*domain.Treatment, error)
	Upsert(ctx context.Context, t *domain.Treatment) (*domain.Treatment, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
