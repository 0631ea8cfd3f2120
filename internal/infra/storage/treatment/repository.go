package treatment

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
)

const table = "treatments"

var columns = []string{"id", "label", "active", "duration_minutes", "price", "sort_order", "updated_at"}

var (
	ErrTreatmentNotFound = fmt.Errorf("%w: treatment", storage.ErrNotFound)

	ErrBuildQuery = errors.New("treatment.repository: failed to build query")
	ErrExecQuery  = errors.New("treatment.repository: failed to execute query")
	ErrScanRow    = errors.New("treatment.repository: failed to scan row")
)

// Repository справочник процедур
type Repository struct {
	db storage.DBExecutor
}

func NewRepository(db storage.DBExecutor) *Repository {
	return &Repository{db: db}
}

// List возвращает процедуры в порядке sort_order, затем label
func (r *Repository) List(ctx context.Context, includeInactive bool) ([]*domain.Treatment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("sort_order ASC", "label ASC")

	if !includeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	treatments := make([]*domain.Treatment, 0)
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		treatments = append(treatments, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return treatments, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Treatment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanTreatment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTreatmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan treatment: %w", ErrScanRow, err)
	}

	return t, nil
}

// Upsert создает процедуру или перезаписывает существующую с тем же id
func (r *Repository) Upsert(ctx context.Context, t *domain.Treatment) (*domain.Treatment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "label", "active", "duration_minutes", "price", "sort_order").
		Values(t.ID, t.Label, t.Active, t.DurationMinutes, t.Price, t.SortOrder).
		Suffix("ON CONFLICT (id) DO UPDATE SET " +
			"label = EXCLUDED.label, " +
			"active = EXCLUDED.active, " +
			"duration_minutes = EXCLUDED.duration_minutes, " +
			"price = EXCLUDED.price, " +
			"sort_order = EXCLUDED.sort_order, " +
			"updated_at = NOW() " +
			"RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %w", ErrExecQuery, err)
	}

	return t, nil
}

func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetActive - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetActive - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTreatmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTreatment(row rowScanner) (*domain.Treatment, error) {
	var t domain.Treatment
	if err := row.Scan(&t.ID, &t.Label, &t.Active, &t.DurationMinutes, &t.Price, &t.SortOrder, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
