package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/userservice"
)

// UseCase use case бронирования слота
type UseCase struct {
	appointmentRepo AppointmentRepository
	bookedSlotRepo  BookedSlotRepository
	slotLockRepo    SlotLockRepository
	calendarRepo    CalendarRepository
	treatmentRepo   TreatmentRepository
	users           UserDirectory
	notifier        Notifier
	txManager       TransactionManager
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	bookedSlotRepo BookedSlotRepository,
	slotLockRepo SlotLockRepository,
	calendarRepo CalendarRepository,
	treatmentRepo TreatmentRepository,
	users UserDirectory,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		bookedSlotRepo:  bookedSlotRepo,
		slotLockRepo:    slotLockRepo,
		calendarRepo:    calendarRepo,
		treatmentRepo:   treatmentRepo,
		users:           users,
		notifier:        notifier,
		txManager:       txManager,
		metrics:         metrics,
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

// Execute выполняет use case бронирования.
// Проверка блокировки, проверка индекса и обе вставки идут в одной сериализуемой
// транзакции: из конкурирующих запросов на один слот успешен ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: actor=%s(%s), patient=%s, date=%s, time=%s",
		req.Actor.ID, req.Actor.Role, req.PatientID, req.Date, req.Time)

	result, err := uc.execute(ctx, req)
	uc.metrics.IncReservation(reservationResult(err))
	if err != nil {
		return nil, err
	}

	// 8. Уведомление после фиксации транзакции
	uc.notifier.Notify(domain.NewBookingConfirmedNotification(result))

	uc.logger.Info("CreateAppointment: created appointment id=%s for slot %s", result.ID, result.SlotKey())

	return &Response{Appointment: result}, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Права: пациент бронирует только для себя
	if err := authorize(req.Actor, req.PatientID); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 3. Пациент должен быть известен провайдеру идентичности
	patient, err := uc.users.GetUser(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			uc.logger.Warn("CreateAppointment: patient %s is unknown", req.PatientID)
			return nil, fmt.Errorf("%w: patient %s", domain.ErrUnknownIdentity, req.PatientID)
		}
		uc.logger.Error("CreateAppointment: failed to resolve patient %s: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: CreateAppointment - resolve patient: %v", ErrInternal, err)
	}
	if !patient.IsPatient() {
		uc.logger.Warn("CreateAppointment: user %s has role %q, not a patient", req.PatientID, patient.Role)
		return nil, fmt.Errorf("%w: user %s is not a patient", domain.ErrUnknownIdentity, req.PatientID)
	}

	// 4. Название процедуры
	treatmentLabel, err := uc.resolveTreatment(ctx, req)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.location)
	key := domain.SlotKey{Date: req.Date, Time: req.Time}

	appt := &domain.Appointment{
		ID:                 uuid.NewString(),
		PatientID:          req.PatientID,
		PatientDisplayName: patient.DisplayName(),
		TreatmentID:        req.TreatmentID,
		TreatmentLabel:     treatmentLabel,
		Date:               req.Date,
		Time:               req.Time,
		Status:             domain.StatusScheduled,
	}

	var created *domain.Appointment

	// 5. Атомарный шаг
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Слот должен существовать в календаре и быть в будущем
		calendar, err := uc.calendarRepo.Get(txCtx)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: CreateAppointment - get calendar: %w", ErrInternal, err)
			}
			calendar = domain.DefaultCalendarConfig()
		}
		if err := validateSlot(calendar, key, now); err != nil {
			return err
		}

		// 5.2. Блокировка слота
		locked, err := uc.slotLockRepo.Exists(txCtx, key)
		if err != nil {
			return fmt.Errorf("%w: CreateAppointment - check slot lock: %w", ErrInternal, err)
		}
		if locked {
			return fmt.Errorf("%w: %s", domain.ErrSlotLocked, key)
		}

		// 5.3. Индекс занятых слотов
		if _, err := uc.bookedSlotRepo.Get(txCtx, key); err == nil {
			return fmt.Errorf("%w: %s", domain.ErrSlotAlreadyBooked, key)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: CreateAppointment - check booked slot: %w", ErrInternal, err)
		}

		// 5.4. Запись и элемент индекса; уникальный ключ - последняя линия защиты
		created, err = uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return fmt.Errorf("%w: %s", domain.ErrSlotAlreadyBooked, key)
			}
			return fmt.Errorf("%w: CreateAppointment - insert appointment: %w", ErrInternal, err)
		}

		err = uc.bookedSlotRepo.Insert(txCtx, &domain.BookedSlot{
			Date:          key.Date,
			Time:          key.Time,
			PatientID:     appt.PatientID,
			AppointmentID: appt.ID,
		})
		if err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return fmt.Errorf("%w: %s", domain.ErrSlotAlreadyBooked, key)
			}
			return fmt.Errorf("%w: CreateAppointment - insert booked slot: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrInvalidInput) {
			uc.logger.Warn("CreateAppointment: slot %s rejected: %v", key, err)
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed for slot %s: %v", key, err)
		return nil, storeUnavailable(err)
	}

	return created, nil
}

// resolveTreatment возвращает название процедуры: из каталога или свободный текст
func (uc *UseCase) resolveTreatment(ctx context.Context, req *Request) (string, error) {
	if req.TreatmentID == nil {
		return strings.TrimSpace(*req.TreatmentLabel), nil
	}

	treatment, err := uc.treatmentRepo.GetByID(ctx, *req.TreatmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			uc.logger.Warn("CreateAppointment: treatment %s not found", *req.TreatmentID)
			return "", fmt.Errorf("%w: %s", domain.ErrTreatmentNotFound, *req.TreatmentID)
		}
		uc.logger.Error("CreateAppointment: failed to get treatment %s: %v", *req.TreatmentID, err)
		return "", fmt.Errorf("%w: CreateAppointment - get treatment: %v", ErrInternal, err)
	}
	if !treatment.Active {
		uc.logger.Warn("CreateAppointment: treatment %s is inactive", treatment.ID)
		return "", fmt.Errorf("%w: %s is inactive", domain.ErrTreatmentNotFound, treatment.ID)
	}

	return treatment.Label, nil
}

// storeUnavailable приводит ошибки менеджера транзакций к ErrStoreUnavailable
func storeUnavailable(err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

func reservationResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrSlotLocked):
		return "locked"
	case errors.Is(err, domain.ErrSlotAlreadyBooked):
		return "already_booked"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "rejected"
	}
}
