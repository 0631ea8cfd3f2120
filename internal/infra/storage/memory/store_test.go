package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage"
)

func newAppointment(id string) *domain.Appointment {
	return &domain.Appointment{
		ID:                 id,
		PatientID:          "patient-1",
		PatientDisplayName: "Anna",
		TreatmentLabel:     "Consultation",
		Date:               "2025-06-10",
		Time:               "10:00",
		Status:             domain.StatusScheduled,
	}
}

func TestTxManager_RollbackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := store.TxManager().DoSerializable(ctx, func(txCtx context.Context) error {
		appt := newAppointment("a-1")
		if _, err := store.Appointments().Create(txCtx, appt); err != nil {
			return err
		}
		if err := store.BookedSlots().Insert(txCtx, &domain.BookedSlot{
			Date: appt.Date, Time: appt.Time, PatientID: appt.PatientID, AppointmentID: appt.ID,
		}); err != nil {
			return err
		}
		return errBoom
	})

	require.ErrorIs(t, err, errBoom)

	_, err = store.Appointments().GetByID(ctx, "a-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.BookedSlots().Get(ctx, domain.SlotKey{Date: "2025-06-10", Time: "10:00"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, store.VerifyIndex())
}

func TestTxManager_RollbackRestoresStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	appt := newAppointment("a-1")
	_, err := store.Appointments().Create(ctx, appt)
	require.NoError(t, err)
	require.NoError(t, store.BookedSlots().Insert(ctx, &domain.BookedSlot{
		Date: appt.Date, Time: appt.Time, PatientID: appt.PatientID, AppointmentID: appt.ID,
	}))

	err = store.TxManager().DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := store.Appointments().UpdateStatus(txCtx, "a-1", domain.StatusScheduled, domain.StatusCancelled, nil, "staff-1"); err != nil {
			return err
		}
		if err := store.BookedSlots().Delete(txCtx, appt.SlotKey(), "a-1"); err != nil {
			return err
		}
		return errors.New("notification table is gone")
	})
	require.Error(t, err)

	got, err := store.Appointments().GetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, got.Status)
	assert.Nil(t, got.StatusChangedBy)
	assert.NoError(t, store.VerifyIndex())
}

func TestAppointments_UpdateStatusCompareAndSet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Appointments().Create(ctx, newAppointment("a-1"))
	require.NoError(t, err)

	_, err = store.Appointments().UpdateStatus(ctx, "a-1", domain.StatusScheduled, domain.StatusCompleted, nil, "staff-1")
	require.NoError(t, err)

	_, err = store.Appointments().UpdateStatus(ctx, "a-1", domain.StatusScheduled, domain.StatusCancelled, nil, "staff-1")
	assert.ErrorIs(t, err, storage.ErrStatusMismatch)
}

func TestAppointments_SingleScheduledPerSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Appointments().Create(ctx, newAppointment("a-1"))
	require.NoError(t, err)

	_, err = store.Appointments().Create(ctx, newAppointment("a-2"))
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	_, err = store.Appointments().Create(ctx, newAppointment("a-1"))
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestSlotLocks_UpsertKeepsCreatedAt(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.SlotLocks()

	first := &domain.SlotLock{Date: "2025-06-10", Time: "10:00", LockedBy: "staff-1"}
	require.NoError(t, repo.Upsert(ctx, first))

	reason := "equipment maintenance"
	second := &domain.SlotLock{Date: "2025-06-10", Time: "10:00", LockedBy: "staff-2", Reason: &reason}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	locks, err := repo.ListByDate(ctx, "2025-06-10")
	require.NoError(t, err)
	require.Len(t, locks, 1)
	assert.Equal(t, "staff-2", locks[0].LockedBy)

	removed, err := repo.Delete(ctx, first.Key())
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, first.Key())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestVerifyIndex_DetectsOrphanEntry(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.BookedSlots().Insert(ctx, &domain.BookedSlot{
		Date: "2025-06-10", Time: "10:00", PatientID: "p", AppointmentID: "missing",
	}))

	assert.Error(t, store.VerifyIndex())
}
