package bulk_clear

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/transition_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
)

// UseCase use case массового перевода записей дня (кнопка "очистить очередь")
type UseCase struct {
	appointmentRepo AppointmentRepository
	transitioner    Transitioner
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	transitioner Transitioner,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		transitioner:    transitioner,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute переводит все записи дня в статусе scheduled в целевой статус.
// Каждая запись переводится отдельной транзакцией; ошибка одной не прерывает остальные.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BulkClear: actor=%s(%s), date=%s, target=%s", req.Actor.ID, req.Actor.Role, req.Date, req.Target)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BulkClear: validation failed: %v", err)
		return nil, err
	}

	// 2. Только персонал
	if !req.Actor.IsStaff() {
		uc.logger.Warn("BulkClear: actor %s(%s) is not staff", req.Actor.ID, req.Actor.Role)
		return nil, fmt.Errorf("%w: only staff can clear the queue", domain.ErrForbidden)
	}

	reason := req.Reason
	if req.Target == domain.StatusCancelled && reason == nil {
		reason = ptr.Ptr(domain.DefaultClinicCancelReason)
	}

	// 3. Записи дня в статусе scheduled
	scheduled := domain.StatusScheduled
	appointments, err := uc.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		Date:   &req.Date,
		Status: &scheduled,
	})
	if err != nil {
		uc.logger.Error("BulkClear: failed to list appointments for %s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: BulkClear - list appointments: %v", ErrInternal, err)
	}

	// 4. Переводим по одной
	resp := &Response{Failed: []string{}}
	for _, appt := range appointments {
		if err := ctx.Err(); err != nil {
			uc.logger.Warn("BulkClear: interrupted after %d of %d: %v", resp.Count, len(appointments), err)
			break
		}

		_, err := uc.transitioner.Execute(ctx, &transition_appointment.Request{
			AppointmentID: appt.ID,
			Target:        req.Target,
			Actor:         req.Actor,
			Reason:        reason,
		})
		if err != nil {
			uc.logger.Warn("BulkClear: appointment id=%s not transitioned: %v", appt.ID, err)
			resp.Failed = append(resp.Failed, appt.ID)
			continue
		}
		resp.Count++
	}

	uc.metrics.AddBulkCleared(string(req.Target), resp.Count)
	uc.logger.Info("BulkClear: date=%s, %d transitioned to %s, %d failed",
		req.Date, resp.Count, req.Target, len(resp.Failed))

	return resp, nil
}
