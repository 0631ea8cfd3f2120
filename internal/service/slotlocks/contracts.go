package slotlocks

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// SlotLockRepository интерфейс репозитория блокировок слотов
type SlotLockRepository interface {
	Upsert(ctx context.Context, lock *domain.SlotLock) error
	Delete(ctx context.Context, key domain.SlotKey) (bool, error)
	ListByDate(ctx context.Context, date types.DateString) ([]*domain.SlotLock, error)
}

// BookedSlotRepository интерфейс индекса занятых слотов
type BookedSlotRepository interface {
	Get(ctx context.Context, key domain.SlotKey) (*domain.BookedSlot, error)
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
