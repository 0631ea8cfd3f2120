package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/notifications/models"
)

// Service входящие уведомления пользователя
type Service struct {
	notificationRepo NotificationRepository
	logger           Logger
}

// NewService создает новый экземпляр сервиса
func NewService(notificationRepo NotificationRepository, logger Logger) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListForRecipient уведомления текущего пользователя, новые сверху
func (s *Service) ListForRecipient(ctx context.Context, actor domain.Actor, unreadOnly bool) (*models.NotificationListResponse, error) {
	list, err := s.notificationRepo.ListByRecipient(ctx, actor.ID, unreadOnly)
	if err != nil {
		s.logger.Error("ListNotifications: recipient=%s: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: ListForRecipient - repository error: %v", ErrInternal, err)
	}

	resp := &models.NotificationListResponse{Notifications: make([]models.NotificationResponse, 0, len(list))}
	for _, n := range list {
		if !n.Read {
			resp.Unread++
		}
		resp.Notifications = append(resp.Notifications, models.FromDomainNotification(n))
	}
	return resp, nil
}

// MarkRead отмечает уведомление прочитанным. Только получатель
func (s *Service) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrNotificationNotFound, id)
		}
		s.logger.Error("MarkNotificationRead: id=%s: %v", id, err)
		return fmt.Errorf("%w: MarkRead - get: %v", ErrInternal, err)
	}

	if n.RecipientID != actor.ID {
		s.logger.Warn("MarkNotificationRead: actor %s is not a recipient of %s", actor.ID, id)
		return ErrAccessDenied
	}
	if n.Read {
		return nil
	}

	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrNotificationNotFound, id)
		}
		s.logger.Error("MarkNotificationRead: id=%s: %v", id, err)
		return fmt.Errorf("%w: MarkRead - update: %v", ErrInternal, err)
	}

	return nil
}
