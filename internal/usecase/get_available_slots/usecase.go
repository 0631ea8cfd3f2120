package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// UseCase use case для получения свободных слотов на дату
type UseCase struct {
	calendarRepo   CalendarRepository
	bookedSlotRepo BookedSlotRepository
	slotLockRepo   SlotLockRepository
	txManager      TransactionManager
	location       *time.Location
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	calendarRepo CalendarRepository,
	bookedSlotRepo BookedSlotRepository,
	slotLockRepo SlotLockRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		calendarRepo:   calendarRepo,
		bookedSlotRepo: bookedSlotRepo,
		slotLockRepo:   slotLockRepo,
		txManager:      txManager,
		location:       location,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов.
// Результат пересчитывается при каждом вызове и ничего не резервирует.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s", req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время в часовом поясе клиники
	now := uc.timeProvider.Now().In(uc.location)

	response := &Response{
		Date:  req.Date,
		Slots: []types.TimeString{},
	}

	// 3. Читаем календарь, занятые слоты и блокировки одним снимком
	var (
		calendar *domain.CalendarConfig
		booked   []*domain.BookedSlot
		locks    []*domain.SlotLock
	)
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		calendar, err = uc.calendarRepo.Get(txCtx)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: GetAvailableSlots - get calendar: %v", ErrInternal, err)
			}
			calendar = domain.DefaultCalendarConfig()
		}

		if validateDate(req.Date, now) != nil {
			return nil
		}

		booked, err = uc.bookedSlotRepo.ListByDate(txCtx, req.Date)
		if err != nil {
			return fmt.Errorf("%w: GetAvailableSlots - list booked slots: %v", ErrInternal, err)
		}

		locks, err = uc.slotLockRepo.ListByDate(txCtx, req.Date)
		if err != nil {
			return fmt.Errorf("%w: GetAvailableSlots - list slot locks: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 4. Праздничный день
	if holiday, ok := calendar.IsHoliday(req.Date); ok {
		response.IsHoliday = true
		response.HolidayLabel = ptr.Ptr(holiday.Label)
		uc.logger.Info("GetAvailableSlots: date=%s is a holiday (%s)", req.Date, holiday.Label)
		return response, nil
	}

	// 5. Прошедшая дата: слотов нет
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Info("GetAvailableSlots: date=%s: %v", req.Date, err)
		return response, nil
	}

	// 6. Кандидаты минус занятые, заблокированные и прошедшие
	candidates := calendar.GenerateSlots(req.Date)
	response.Slots = filterSlots(req.Date, candidates, booked, locks, now)

	uc.logger.Info("GetAvailableSlots: date=%s, %d of %d slots available",
		req.Date, len(response.Slots), len(candidates))

	return response, nil
}
