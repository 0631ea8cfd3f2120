package slotlock

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

const table = "slot_locks"

var (
	ErrBuildQuery = errors.New("slotlock.repository: failed to build query")
	ErrExecQuery  = errors.New("slotlock.repository: failed to execute query")
	ErrScanRow    = errors.New("slotlock.repository: failed to scan row")
)

// Repository административные блокировки слотов
type Repository struct {
	db storage.DBExecutor
}

func NewRepository(db storage.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает блокировку или обновляет причину существующей
func (r *Repository) Upsert(ctx context.Context, lock *domain.SlotLock) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("slot_date", "slot_time", "reason", "locked_by").
		Values(lock.Date, lock.Time, lock.Reason, lock.LockedBy).
		Suffix("ON CONFLICT (slot_date, slot_time) DO UPDATE SET reason = EXCLUDED.reason, locked_by = EXCLUDED.locked_by " +
			"RETURNING created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&lock.CreatedAt); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// Delete снимает блокировку. Возвращает false, если блокировки не было.
func (r *Repository) Delete(ctx context.Context, key domain.SlotKey) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"slot_date": key.Date, "slot_time": key.Time}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// Exists проверяет наличие блокировки.
// Внутри пишущей транзакции берет FOR SHARE, чтобы снятие/установка блокировки
// не проскочили между проверкой и записью бронирования.
func (r *Repository) Exists(ctx context.Context, key domain.SlotKey) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{"slot_date": key.Date, "slot_time": key.Time})

	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Exists - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("%w: Exists - rows error: %w", ErrScanRow, err)
	}

	return exists, nil
}

// ListByDate возвращает блокировки даты по возрастанию времени
func (r *Repository) ListByDate(ctx context.Context, date types.DateString) ([]*domain.SlotLock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "slot_time", "reason", "locked_by", "created_at").
		From(table).
		Where(squirrel.Eq{"slot_date": date}).
		OrderBy("slot_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	locks := make([]*domain.SlotLock, 0)
	for rows.Next() {
		var lock domain.SlotLock
		if err := rows.Scan(&lock.Date, &lock.Time, &lock.Reason, &lock.LockedBy, &lock.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan row: %w", ErrScanRow, err)
		}
		locks = append(locks, &lock)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %w", ErrScanRow, err)
	}

	return locks, nil
}
