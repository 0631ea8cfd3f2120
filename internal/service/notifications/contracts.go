package notifications

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений (входящие пользователя)
type NotificationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
