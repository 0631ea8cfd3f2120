package bulk_clear

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/usecase/transition_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var (
	clinicTZ = time.FixedZone("ICT", 7*60*60)
	staff    = domain.Actor{ID: "staff-1", Role: domain.RoleStaff}
)

type nopNotifier struct{}

func (nopNotifier) Notify(domain.Notification) {}

type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Date(2025, 6, 10, 8, 0, 0, 0, clinicTZ)
}

type nopMetrics struct{}

func (nopMetrics) IncTransition(string, string) {}
func (nopMetrics) AddBulkCleared(string, int) {}

// seed записи создаются напрямую в хранилище вместе с элементами индекса
func seed(t *testing.T, store *memory.Store, id string, date types.DateString, slot types.TimeString, status domain.AppointmentStatus) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Appointments().Create(ctx, &domain.Appointment{
		ID: id, PatientID: "patient-" + id, TreatmentLabel: "Consultation",
		Date: date, Time: slot, Status: domain.StatusScheduled,
	})
	require.NoError(t, err)
	require.NoError(t, store.BookedSlots().Insert(ctx, &domain.BookedSlot{
		Date: date, Time: slot, PatientID: "patient-" + id, AppointmentID: id,
	}))

	if status != domain.StatusScheduled {
		_, err = store.Appointments().UpdateStatus(ctx, id, domain.StatusScheduled, status, nil, staff.ID)
		require.NoError(t, err)
		require.NoError(t, store.BookedSlots().Delete(ctx, domain.SlotKey{Date: date, Time: slot}, id))
	}
}

func newUseCase(store *memory.Store, transitioner Transitioner) *UseCase {
	return NewUseCase(store.Appointments(), transitioner, nopMetrics{}, logger.NewNop())
}

func newTransitioner(store *memory.Store) *transition_appointment.UseCase {
	return transition_appointment.NewUseCase(
		store.Appointments(),
		store.BookedSlots(),
		nopNotifier{},
		store.TxManager(),
		nopMetrics{},
		transition_appointment.DefaultPolicy(),
		clinicTZ,
		logger.NewNop(),
	).WithTimeProvider(fixedClock{})
}

func TestExecute_CancelsScheduledOfTheDay(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "a-1", "2025-06-10", "09:00", domain.StatusScheduled)
	seed(t, store, "a-2", "2025-06-10", "09:30", domain.StatusScheduled)
	seed(t, store, "a-3", "2025-06-10", "10:00", domain.StatusCompleted)
	seed(t, store, "a-4", "2025-06-11", "09:00", domain.StatusScheduled)

	uc := newUseCase(store, newTransitioner(store))

	resp, err := uc.Execute(context.Background(), &Request{Actor: staff, Date: "2025-06-10", Target: domain.StatusCancelled})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Empty(t, resp.Failed)

	for _, id := range []string{"a-1", "a-2"} {
		appt, err := store.Appointments().GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, appt.Status)
		assert.Equal(t, domain.DefaultClinicCancelReason, *appt.CancelReason)
	}

	untouched, err := store.Appointments().GetByID(context.Background(), "a-4")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, untouched.Status)
	assert.NoError(t, store.VerifyIndex())
}

type flakyTransitioner struct {
	next    Transitioner
	failIDs map[string]bool
}

func (f flakyTransitioner) Execute(ctx context.Context, req *transition_appointment.Request) (*transition_appointment.Response, error) {
	if f.failIDs[req.AppointmentID] {
		return nil, errors.New("serialization failure")
	}
	return f.next.Execute(ctx, req)
}

func TestExecute_FailuresDoNotAbortBatch(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "a-1", "2025-06-10", "09:00", domain.StatusScheduled)
	seed(t, store, "a-2", "2025-06-10", "09:30", domain.StatusScheduled)
	seed(t, store, "a-3", "2025-06-10", "10:00", domain.StatusScheduled)

	uc := newUseCase(store, flakyTransitioner{next: newTransitioner(store), failIDs: map[string]bool{"a-2": true}})

	resp, err := uc.Execute(context.Background(), &Request{Actor: staff, Date: "2025-06-10", Target: domain.StatusCompleted})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"a-2"}, resp.Failed)
	assert.NoError(t, store.VerifyIndex())
}

func TestExecute_Rejections(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, newTransitioner(store))

	_, err := uc.Execute(context.Background(), &Request{
		Actor:  domain.Actor{ID: "patient-1", Role: domain.RolePatient},
		Date:   "2025-06-10",
		Target: domain.StatusCancelled,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Execute(context.Background(), &Request{Actor: staff, Date: "2025-06-10", Target: domain.StatusMissed})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Actor: staff, Date: "10/06/2025", Target: domain.StatusCompleted})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExecute_EmptyDay(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, newTransitioner(store))

	resp, err := uc.Execute(context.Background(), &Request{Actor: staff, Date: "2025-06-10", Target: domain.StatusCompleted})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Failed)
}
