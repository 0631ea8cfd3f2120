package notifier

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Sink конечная точка доставки уведомлений
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n domain.Notification) error
}

// NotificationRepository интерфейс репозитория уведомлений (входящие пользователя)
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
