package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/calendar/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Service сервис для работы с календарем клиники
type Service struct {
	calendarRepo CalendarRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(calendarRepo CalendarRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get возвращает сохраненный календарь или значения по умолчанию.
// Публичный метод - доступен всем
func (s *Service) Get(ctx context.Context) (*models.CalendarResponse, error) {
	cfg, err := s.load(ctx, s.calendarRepo.Get)
	if err != nil {
		s.logger.Error("GetCalendar: %v", err)
		return nil, err
	}
	return models.FromDomainCalendar(cfg), nil
}

// Update частично обновляет календарь.
// Доступно только сотрудникам клиники
func (s *Service) Update(ctx context.Context, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("UpdateCalendar: by %s(%s)", req.Actor.ID, req.Actor.Role)

	// 1. Проверяем права
	if !req.Actor.IsStaff() {
		s.logger.Warn("UpdateCalendar: actor %s(%s) is not staff", req.Actor.ID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	// 2. Валидируем формат переданных значений
	if err := validateUpdateRequest(req); err != nil {
		s.logger.Warn("UpdateCalendar: validation failed: %v", err)
		return nil, err
	}

	// 3. Читаем, сливаем, проверяем и сохраняем в одной транзакции
	return s.mutate(ctx, "UpdateCalendar", func(cfg *domain.CalendarConfig) {
		req.ApplyTo(cfg)
	})
}

// AddHoliday добавляет выходной день (или меняет его название). Идемпотентен.
// Доступно только сотрудникам клиники
func (s *Service) AddHoliday(ctx context.Context, actor domain.Actor, date types.DateString, label string) (*models.CalendarResponse, error) {
	s.logger.Info("AddHoliday: date=%s by %s(%s)", date, actor.ID, actor.Role)

	if !actor.IsStaff() {
		s.logger.Warn("AddHoliday: actor %s(%s) is not staff", actor.ID, actor.Role)
		return nil, ErrAccessDenied
	}
	if err := date.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(label) > domain.MaxHolidayLabelLength {
		return nil, fmt.Errorf("%w: holiday label must not exceed %d characters", ErrInvalidInput, domain.MaxHolidayLabelLength)
	}

	return s.mutate(ctx, "AddHoliday", func(cfg *domain.CalendarConfig) {
		cfg.SetHoliday(date, label)
	})
}

// RemoveHoliday удаляет выходной день. Идемпотентен.
// Доступно только сотрудникам клиники
func (s *Service) RemoveHoliday(ctx context.Context, actor domain.Actor, date types.DateString) (*models.CalendarResponse, error) {
	s.logger.Info("RemoveHoliday: date=%s by %s(%s)", date, actor.ID, actor.Role)

	if !actor.IsStaff() {
		s.logger.Warn("RemoveHoliday: actor %s(%s) is not staff", actor.ID, actor.Role)
		return nil, ErrAccessDenied
	}
	if err := date.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.mutate(ctx, "RemoveHoliday", func(cfg *domain.CalendarConfig) {
		if !cfg.RemoveHoliday(date) {
			s.logger.Info("RemoveHoliday: date=%s was not a holiday", date)
		}
	})
}

// mutate применяет изменение к текущему календарю и сохраняет результат
func (s *Service) mutate(ctx context.Context, op string, apply func(cfg *domain.CalendarConfig)) (*models.CalendarResponse, error) {
	var saved *domain.CalendarConfig

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		cfg, err := s.load(txCtx, s.calendarRepo.GetForUpdate)
		if err != nil {
			return err
		}

		apply(cfg)

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		saved, err = s.calendarRepo.Save(txCtx, cfg)
		if err != nil {
			return fmt.Errorf("%w: %s - save calendar: %w", ErrInternal, op, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			s.logger.Warn("%s: rejected: %v", op, err)
			return nil, err
		}
		s.logger.Error("%s: %v", op, err)
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	s.logger.Info("%s: calendar saved, %d holidays", op, len(saved.Holidays))
	return models.FromDomainCalendar(saved), nil
}

func (s *Service) load(ctx context.Context, get func(ctx context.Context) (*domain.CalendarConfig, error)) (*domain.CalendarConfig, error) {
	cfg, err := get(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.DefaultCalendarConfig(), nil
		}
		return nil, fmt.Errorf("%w: get calendar: %w", ErrInternal, err)
	}
	return cfg, nil
}
