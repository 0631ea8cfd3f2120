package transition_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
)

// UseCase use case смены статуса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	bookedSlotRepo  BookedSlotRepository
	notifier        Notifier
	txManager       TransactionManager
	metrics         Metrics
	policy          Policy
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	bookedSlotRepo BookedSlotRepository,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	policy Policy,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		bookedSlotRepo:  bookedSlotRepo,
		notifier:        notifier,
		txManager:       txManager,
		metrics:         metrics,
		policy:          policy,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет переход scheduled -> completed | cancelled | missed.
// Смена статуса и удаление элемента индекса выполняются атомарно.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionAppointment: id=%s, target=%s, actor=%s(%s)",
		req.AppointmentID, req.Target, req.Actor.ID, req.Actor.Role)

	updated, reason, err := uc.execute(ctx, req)
	uc.metrics.IncTransition(string(req.Target), transitionResult(err))
	if err != nil {
		return nil, err
	}

	// 5. Уведомления после фиксации транзакции
	switch updated.Status {
	case domain.StatusCancelled:
		uc.notifier.Notify(domain.NewBookingCancelledNotification(updated, reason))
	case domain.StatusCompleted:
		uc.notifier.Notify(domain.NewVisitCompletedNotification(updated))
	}

	uc.logger.Info("TransitionAppointment: appointment id=%s is %s, slot %s released",
		updated.ID, updated.Status, updated.SlotKey())

	return &Response{Appointment: updated}, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, string, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionAppointment: validation failed: %v", err)
		return nil, "", err
	}

	// 2. Текущее время в часовом поясе клиники
	now := uc.timeProvider.Now().In(uc.location)

	var (
		updated *domain.Appointment
		reason  string
	)

	// 3. Проверки и запись в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Загружаем запись с блокировкой строки
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrAppointmentNotFound, req.AppointmentID)
			}
			return fmt.Errorf("%w: TransitionAppointment - get appointment: %w", ErrInternal, err)
		}

		// 3.2. Права проверяются раньше состояния
		if err := authorize(req.Actor, appt, req.Target); err != nil {
			return err
		}

		// 3.3. Машина состояний
		if err := appt.CanTransitionTo(req.Target); err != nil {
			return err
		}

		// 3.4. Ограничения по времени
		start, err := appt.StartsAt(uc.location)
		if err != nil {
			return fmt.Errorf("%w: TransitionAppointment - slot start: %w", ErrInternal, err)
		}
		if err := validateTiming(req.Actor, req.Target, start, now, uc.policy.CancelLeadTime); err != nil {
			return err
		}

		var reasonPtr *string
		if req.Target == domain.StatusCancelled {
			reason = cancelReason(req.Actor, req.Reason, uc.policy)
			reasonPtr = &reason
		}

		// 3.5. Compare-and-set статуса
		updated, err = uc.appointmentRepo.UpdateStatus(txCtx, appt.ID, domain.StatusScheduled, req.Target, reasonPtr, req.Actor.ID)
		if err != nil {
			if errors.Is(err, storage.ErrStatusMismatch) {
				return fmt.Errorf("%w: appointment %s was changed concurrently", domain.ErrInvalidTransition, appt.ID)
			}
			return fmt.Errorf("%w: TransitionAppointment - update status: %w", ErrInternal, err)
		}

		// 3.6. Освобождаем слот
		if err := uc.bookedSlotRepo.Delete(txCtx, appt.SlotKey(), appt.ID); err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: TransitionAppointment - release slot: %w", ErrInternal, err)
			}
			uc.logger.Warn("TransitionAppointment: no booked slot entry %s for appointment id=%s", appt.SlotKey(), appt.ID)
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStoreUnavailable):
			uc.logger.Error("TransitionAppointment: id=%s: %v", req.AppointmentID, err)
			return nil, "", err
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrForbidden),
			errors.Is(err, domain.ErrInvalidTransition):
			uc.logger.Warn("TransitionAppointment: id=%s rejected: %v", req.AppointmentID, err)
			return nil, "", err
		default:
			uc.logger.Error("TransitionAppointment: id=%s: transaction failed: %v", req.AppointmentID, err)
			return nil, "", fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	return updated, reason, nil
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "rejected"
	}
}
