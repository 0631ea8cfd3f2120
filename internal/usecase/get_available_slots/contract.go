package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// CalendarRepository интерфейс репозитория календаря клиники
type CalendarRepository interface {
	Get(ctx context.Context) (*domain.CalendarConfig, error)
}

// BookedSlotRepository интерфейс индекса занятых слотов
type BookedSlotRepository interface {
	ListByDate(ctx context.Context, date types.DateString) ([]*domain.BookedSlot, error)
}

// SlotLockRepository интерфейс репозитория блокировок слотов
type SlotLockRepository interface {
	ListByDate(ctx context.Context, date types.DateString) ([]*domain.SlotLock, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
