package notifications

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	ListForRecipient(ctx context.Context, actor domain.Actor, unreadOnly bool) (*models.NotificationListResponse, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
