package notifier

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// StoreSink сохраняет уведомления во входящие пользователя
type StoreSink struct {
	repo NotificationRepository
}

func NewStoreSink(repo NotificationRepository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Name() string {
	return "store"
}

func (s *StoreSink) Deliver(ctx context.Context, n domain.Notification) error {
	return s.repo.Create(ctx, &n)
}
