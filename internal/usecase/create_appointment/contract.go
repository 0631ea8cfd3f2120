package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/userservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// BookedSlotRepository интерфейс индекса занятых слотов
type BookedSlotRepository interface {
	Insert(ctx context.Context, slot *domain.BookedSlot) error
	Get(ctx context.Context, key domain.SlotKey) (*domain.BookedSlot, error)
}

// SlotLockRepository интерфейс репозитория блокировок слотов
type SlotLockRepository interface {
	Exists(ctx context.Context, key domain.SlotKey) (bool, error)
}

// CalendarRepository интерфейс репозитория календаря клиники
type CalendarRepository interface {
	Get(ctx context.Context) (*domain.CalendarConfig, error)
}

// TreatmentRepository интерфейс каталога процедур
type TreatmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Treatment, error)
}

// UserDirectory интерфейс провайдера идентичности
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*userservice.User, error)
}

// Notifier интерфейс отправки уведомлений (не блокирует)
type Notifier interface {
	Notify(n domain.Notification)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики бронирований
type Metrics interface {
	IncReservation(result string)
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
