package slotlocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/slotlocks/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Service административная блокировка слотов
type Service struct {
	slotLockRepo   SlotLockRepository
	bookedSlotRepo BookedSlotRepository
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	slotLockRepo SlotLockRepository,
	bookedSlotRepo BookedSlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotLockRepo:   slotLockRepo,
		bookedSlotRepo: bookedSlotRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// Lock блокирует слот. Повторная блокировка обновляет причину.
// Существующие записи на слот не затрагиваются
func (s *Service) Lock(ctx context.Context, actor domain.Actor, date types.DateString, slot types.TimeString, reason *string) (*models.LockResultResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("LockSlot: actor %s(%s) is not staff", actor.ID, actor.Role)
		return nil, ErrAccessDenied
	}
	if err := validateSlotKey(date, slot); err != nil {
		return nil, err
	}
	if reason != nil && len(*reason) > domain.MaxLockReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxLockReasonLength)
	}

	lock := &domain.SlotLock{
		Date:     date,
		Time:     slot,
		Reason:   reason,
		LockedBy: actor.ID,
	}
	hasActiveBooking := false

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// 1. Проверяем, есть ли действующая запись на слот
		_, err := s.bookedSlotRepo.Get(ctx, lock.Key())
		switch {
		case err == nil:
			hasActiveBooking = true
		case errors.Is(err, storage.ErrNotFound):
			hasActiveBooking = false
		default:
			return err
		}

		// 2. Создаем или обновляем блокировку
		return s.slotLockRepo.Upsert(ctx, lock)
	})
	if err != nil {
		s.logger.Error("LockSlot: slot=%s: %v", lock.Key(), err)
		return nil, fmt.Errorf("%w: Lock - %w", ErrInternal, err)
	}

	if hasActiveBooking {
		s.logger.Warn("LockSlot: slot=%s locked by %s while it holds a scheduled appointment", lock.Key(), actor.ID)
	} else {
		s.logger.Info("LockSlot: slot=%s locked by %s", lock.Key(), actor.ID)
	}

	return &models.LockResultResponse{
		SlotLockResponse: models.FromDomainSlotLock(lock),
		HasActiveBooking: hasActiveBooking,
	}, nil
}

// Unlock снимает блокировку. Отсутствие блокировки не является ошибкой
func (s *Service) Unlock(ctx context.Context, actor domain.Actor, date types.DateString, slot types.TimeString) (*models.UnlockResultResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("UnlockSlot: actor %s(%s) is not staff", actor.ID, actor.Role)
		return nil, ErrAccessDenied
	}
	if err := validateSlotKey(date, slot); err != nil {
		return nil, err
	}

	key := domain.SlotKey{Date: date, Time: slot}

	var removed bool
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		removed, err = s.slotLockRepo.Delete(ctx, key)
		return err
	})
	if err != nil {
		s.logger.Error("UnlockSlot: slot=%s: %v", key, err)
		return nil, fmt.Errorf("%w: Unlock - %w", ErrInternal, err)
	}

	s.logger.Info("UnlockSlot: slot=%s removed=%t by %s", key, removed, actor.ID)
	return &models.UnlockResultResponse{Removed: removed}, nil
}

// List блокировки за день
func (s *Service) List(ctx context.Context, actor domain.Actor, date types.DateString) (*models.SlotLockListResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrAccessDenied
	}
	if err := date.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	locks, err := s.slotLockRepo.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("ListSlotLocks: date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.SlotLockListResponse{
		Date:  date.String(),
		Locks: make([]models.SlotLockResponse, 0, len(locks)),
	}
	for _, l := range locks {
		resp.Locks = append(resp.Locks, models.FromDomainSlotLock(l))
	}
	return resp, nil
}

func validateSlotKey(date types.DateString, slot types.TimeString) error {
	if err := date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := slot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
