package bookedslot

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

const table = "booked_slots"

var (
	// ErrBookedSlotNotFound запись индекса не найдена
	ErrBookedSlotNotFound = fmt.Errorf("%w: booked slot", storage.ErrNotFound)

	// ErrSlotAlreadyTaken ключ (дата, время) уже занят
	ErrSlotAlreadyTaken = fmt.Errorf("%w: booked slot", storage.ErrDuplicate)

	ErrBuildQuery = errors.New("bookedslot.repository: failed to build query")
	ErrExecQuery  = errors.New("bookedslot.repository: failed to execute query")
	ErrScanRow    = errors.New("bookedslot.repository: failed to scan row")
)

// Repository индекс занятых слотов: (slot_date, slot_time) -> пациент, запись.
// Первичный ключ таблицы и есть ключ взаимного исключения бронирований.
type Repository struct {
	db storage.DBExecutor
}

func NewRepository(db storage.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert занимает слот. Если ключ уже занят, возвращает ErrSlotAlreadyTaken.
func (r *Repository) Insert(ctx context.Context, slot *domain.BookedSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("slot_date", "slot_time", "patient_id", "appointment_id").
		Values(slot.Date, slot.Time, slot.PatientID, slot.AppointmentID).
		Suffix("ON CONFLICT (slot_date, slot_time) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Insert - execute insert: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Insert - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotAlreadyTaken
	}

	return nil
}

// Get возвращает запись индекса по ключу
func (r *Repository) Get(ctx context.Context, key domain.SlotKey) (*domain.BookedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "slot_time", "patient_id", "appointment_id", "created_at").
		From(table).
		Where(squirrel.Eq{"slot_date": key.Date, "slot_time": key.Time}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.BookedSlot
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.Date,
		&slot.Time,
		&slot.PatientID,
		&slot.AppointmentID,
		&slot.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookedSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan booked slot: %w", ErrScanRow, err)
	}

	return &slot, nil
}

// Delete освобождает слот, только если он принадлежит указанной записи
func (r *Repository) Delete(ctx context.Context, key domain.SlotKey, appointmentID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{
			"slot_date":      key.Date,
			"slot_time":      key.Time,
			"appointment_id": appointmentID,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookedSlotNotFound
	}

	return nil
}

// ListByDate возвращает занятые слоты даты по возрастанию времени
func (r *Repository) ListByDate(ctx context.Context, date types.DateString) ([]*domain.BookedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "slot_time", "patient_id", "appointment_id", "created_at").
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

	slots := make([]*domain.BookedSlot, 0)
	for rows.Next() {
		var slot domain.BookedSlot
		if err := rows.Scan(&slot.Date, &slot.Time, &slot.PatientID, &slot.AppointmentID, &slot.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan row: %w", ErrScanRow, err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}
