package missed

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/transition_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

const (
	DefaultInterval = time.Minute
	DefaultGrace    = 60 * time.Minute
)

// Config настройки воркера
type Config struct {
	Interval time.Duration // Период опроса
	Grace    time.Duration // Сколько ждать после начала приема, прежде чем считать его пропущенным
}

// Worker переводит в missed записи, прием по которым начался больше Grace назад,
// а статус так и остался scheduled
type Worker struct {
	appointmentRepo AppointmentRepository
	transitioner    Transitioner
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
	interval        time.Duration
	grace           time.Duration
}

func NewWorker(
	appointmentRepo AppointmentRepository,
	transitioner Transitioner,
	location *time.Location,
	logger Logger,
	cfg Config,
) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Grace < 0 {
		cfg.Grace = DefaultGrace
	}
	return &Worker{
		appointmentRepo: appointmentRepo,
		transitioner:    transitioner,
		location:        location,
		timeProvider:    realTimeProvider{},
		logger:          logger,
		interval:        cfg.Interval,
		grace:           cfg.Grace,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (w *Worker) WithTimeProvider(tp TimeProvider) *Worker {
	w.timeProvider = tp
	return w
}

// Run опрашивает хранилище до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("MissedSweeper: started, interval=%s, grace=%s", w.interval, w.grace)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("MissedSweeper: stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				w.logger.Error("MissedSweeper: sweep failed: %v", err)
			}
		}
	}
}

// Sweep один проход; возвращает число переведенных записей
func (w *Worker) Sweep(ctx context.Context) (int, error) {
	now := w.timeProvider.Now().In(w.location)
	cutoff := now.Add(-w.grace)
	today := types.NewDateString(now)

	scheduled := domain.StatusScheduled
	appointments, err := w.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		ToDate: &today,
		Status: &scheduled,
	})
	if err != nil {
		return 0, fmt.Errorf("MissedSweeper - list appointments: %w", err)
	}

	marked := 0
	for _, appt := range appointments {
		start, err := appt.StartsAt(w.location)
		if err != nil {
			w.logger.Warn("MissedSweeper: appointment id=%s has invalid slot %s: %v", appt.ID, appt.SlotKey(), err)
			continue
		}
		if !start.Before(cutoff) {
			continue
		}

		_, err = w.transitioner.Execute(ctx, &transition_appointment.Request{
			AppointmentID: appt.ID,
			Target:        domain.StatusMissed,
			Actor:         domain.SystemActor(),
		})
		if err != nil {
			w.logger.Warn("MissedSweeper: appointment id=%s not marked missed: %v", appt.ID, err)
			continue
		}
		marked++
	}

	if marked > 0 {
		w.logger.Info("MissedSweeper: marked %d appointments as missed", marked)
	}
	return marked, nil
}
