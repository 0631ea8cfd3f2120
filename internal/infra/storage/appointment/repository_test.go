package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/txmanager"
)

const (
	insertAppointment = `^INSERT INTO appointments .* RETURNING created_at, updated_at$`
	selectByIDPlain   = `^SELECT id, patient_id, .* FROM appointments WHERE id = \$1$`
	selectByIDLocked  = `^SELECT id, patient_id, .* FROM appointments WHERE id = \$1 FOR UPDATE$`
	updateStatus      = `^UPDATE appointments SET status = \$1, cancel_reason = \$2, status_changed_by = \$3, updated_at = NOW\(\) WHERE .*id = \$4 AND status = \$5.* RETURNING id, patient_id`
)

var createdAt = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newRepository(t *testing.T) (*Repository, *txmanager.TransactionManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), txmanager.NewTransactionManager(wrapped), mock
}

func appointmentRows(status string, reason, changedBy interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		"appt-1",
		"anna",
		"Anna",
		nil,
		"Consultation",
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		"10:00:00",
		status,
		reason,
		changedBy,
		createdAt,
		createdAt,
	)
}

func newAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:                 "appt-1",
		PatientID:          "anna",
		PatientDisplayName: "Anna",
		TreatmentLabel:     "Consultation",
		Date:               "2025-06-10",
		Time:               "10:00",
		Status:             domain.StatusScheduled,
	}
}

func TestCreate(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(insertAppointment).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, createdAt))

	appt, err := repo.Create(context.Background(), newAppointment())

	require.NoError(t, err)
	assert.Equal(t, createdAt, appt.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(insertAppointment).WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), newAppointment())

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.ErrorIs(t, err, storage.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_OtherPostgresError(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(insertAppointment).WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Create(context.Background(), newAppointment())

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, storage.ErrDuplicate)
}

func TestGetByID_RowLockOnlyInWritableTransaction(t *testing.T) {
	repo, txMgr, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectByIDLocked).WithArgs("appt-1").WillReturnRows(appointmentRows("scheduled", nil, nil))
	mock.ExpectCommit()

	err := txMgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := repo.GetByID(ctx, "appt-1")
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(selectByIDPlain).WithArgs("appt-1").WillReturnRows(appointmentRows("scheduled", nil, nil))
	mock.ExpectCommit()

	var appt *domain.Appointment
	err = txMgr.DoReadOnly(context.Background(), func(ctx context.Context) error {
		var err error
		appt, err = repo.GetByID(ctx, "appt-1")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusScheduled, appt.Status)
	assert.Equal(t, domain.SlotKey{Date: "2025-06-10", Time: "10:00"}, appt.SlotKey())
	assert.Nil(t, appt.TreatmentID)
	assert.Nil(t, appt.CancelReason)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery(selectByIDPlain).WithArgs("missing").WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateStatus_CompareAndSet(t *testing.T) {
	repo, _, mock := newRepository(t)
	reason := ptr.Ptr("Cancelled by clinic")

	mock.ExpectQuery(updateStatus).
		WithArgs("cancelled", "Cancelled by clinic", "staff-1", "appt-1", "scheduled").
		WillReturnRows(appointmentRows("cancelled", "Cancelled by clinic", "staff-1"))

	appt, err := repo.UpdateStatus(context.Background(), "appt-1", domain.StatusScheduled, domain.StatusCancelled, reason, "staff-1")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, appt.Status)
	require.NotNil(t, appt.CancelReason)
	assert.Equal(t, "Cancelled by clinic", *appt.CancelReason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_StatusAlreadyChanged(t *testing.T) {
	repo, _, mock := newRepository(t)

	// WHERE status = 'scheduled' не совпал: другая транзакция успела раньше
	mock.ExpectQuery(updateStatus).WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.UpdateStatus(context.Background(), "appt-1", domain.StatusScheduled, domain.StatusCompleted, nil, "staff-1")

	assert.ErrorIs(t, err, ErrStatusChanged)
	assert.ErrorIs(t, err, storage.ErrStatusMismatch)
	require.NoError(t, mock.ExpectationsWereMet())
}
