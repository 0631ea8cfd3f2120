package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

const (
	calendarTable = "clinic_calendar"
	holidaysTable = "clinic_holidays"

	// singletonID единственная строка календаря клиники
	singletonID = 1
)

// Repository репозиторий календаря клиники (singleton) и праздничных дней
type Repository struct {
	db storage.DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db storage.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает сохраненный календарь вместе с праздниками без блокировки строки.
// Используется чтением слотов и бронированием: строка календаря общая для всех
// слотов, блокировать ее там нельзя.
func (r *Repository) Get(ctx context.Context) (*domain.CalendarConfig, error) {
	return r.get(ctx, false)
}

// GetForUpdate как Get, но внутри транзакции блокирует строку календаря (FOR UPDATE):
// два одновременных частичных обновления применяются по очереди.
func (r *Repository) GetForUpdate(ctx context.Context) (*domain.CalendarConfig, error) {
	return r.get(ctx, dbmetrics.CanLockRows(ctx))
}

func (r *Repository) get(ctx context.Context, forUpdate bool) (*domain.CalendarConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"work_start",
		"work_end",
		"break_start",
		"break_end",
		"slot_duration_minutes",
		"updated_at",
	).
		From(calendarTable).
		Where(squirrel.Eq{"id": singletonID})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		cfg                  domain.CalendarConfig
		breakStart, breakEnd types.TimeString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.WorkingHours.Start,
		&cfg.WorkingHours.End,
		&breakStart,
		&breakEnd,
		&cfg.SlotDurationMinutes,
		&cfg.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan calendar: %w", ErrScanRow, err)
	}

	// NULL в break_start/break_end означает, что перерыва нет
	cfg.BreakWindow = domain.TimeRange{Start: breakStart, End: breakEnd}

	holidays, err := r.listHolidays(ctx, executor)
	if err != nil {
		return nil, err
	}
	cfg.Holidays = holidays

	return &cfg, nil
}

// Save сохраняет календарь целиком: строку настроек и полный набор праздников.
// Вызывать внутри транзакции, иначе набор праздников может оказаться частичным.
func (r *Repository) Save(ctx context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var breakStart, breakEnd interface{}
	if cfg.HasBreak() {
		breakStart, breakEnd = cfg.BreakWindow.Start, cfg.BreakWindow.End
	}

	query, args, err := psqlbuilder.Insert(calendarTable).
		Columns("id", "work_start", "work_end", "break_start", "break_end", "slot_duration_minutes").
		Values(
			singletonID,
			cfg.WorkingHours.Start,
			cfg.WorkingHours.End,
			breakStart,
			breakEnd,
			cfg.SlotDurationMinutes,
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET " +
			"work_start = EXCLUDED.work_start, " +
			"work_end = EXCLUDED.work_end, " +
			"break_start = EXCLUDED.break_start, " +
			"break_end = EXCLUDED.break_end, " +
			"slot_duration_minutes = EXCLUDED.slot_duration_minutes, " +
			"updated_at = NOW() " +
			"RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&cfg.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Save - execute upsert: %w", ErrExecQuery, err)
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(holidaysTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build delete holidays query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: Save - delete holidays: %w", ErrExecQuery, err)
	}

	if len(cfg.Holidays) > 0 {
		insertBuilder := psqlbuilder.Insert(holidaysTable).Columns("holiday_date", "label")
		for _, h := range cfg.Holidays {
			insertBuilder = insertBuilder.Values(h.Date, h.Label)
		}

		insertQuery, insertArgs, err := insertBuilder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Save - build insert holidays query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return nil, fmt.Errorf("%w: Save - insert holidays: %w", ErrExecQuery, err)
		}
	}

	return cfg, nil
}

func (r *Repository) listHolidays(ctx context.Context, executor storage.DBExecutor) ([]domain.Holiday, error) {
	query, args, err := psqlbuilder.Select("holiday_date", "label").
		From(holidaysTable).
		OrderBy("holiday_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listHolidays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listHolidays - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	holidays := make([]domain.Holiday, 0)
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.Date, &h.Label); err != nil {
			return nil, fmt.Errorf("%w: listHolidays - scan row: %w", ErrScanRow, err)
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listHolidays - rows error: %w", ErrScanRow, err)
	}

	return holidays, nil
}
