package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var clinicTZ = time.FixedZone("ICT", 7*60*60)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Notify(notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type countingMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *countingMetrics) IncReservation(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}

type fixture struct {
	store    *memory.Store
	users    *userservice.StaticDirectory
	notifier *recordingNotifier
	metrics  *countingMetrics
	uc       *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    memory.NewStore(),
		users:    userservice.NewStaticDirectory(userservice.User{ID: "staff-1", Name: "Dr. Somchai", Role: "staff"}),
		notifier: &recordingNotifier{},
		metrics:  &countingMetrics{},
	}
	for i := 0; i < 50; i++ {
		f.users.Add(userservice.User{ID: patientID(i), Name: fmt.Sprintf("Patient %d", i), Role: "patient"})
	}

	f.uc = NewUseCase(
		f.store.Appointments(),
		f.store.BookedSlots(),
		f.store.SlotLocks(),
		f.store.Calendar(),
		f.store.Treatments(),
		f.users,
		f.notifier,
		f.store.TxManager(),
		f.metrics,
		clinicTZ,
		logger.NewNop(),
	).WithTimeProvider(fixedClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, clinicTZ)})

	return f
}

func patientID(i int) string {
	return fmt.Sprintf("patient-%d", i)
}

func patientRequest(i int, date, slot string) *Request {
	return &Request{
		Actor:          domain.Actor{ID: patientID(i), Role: domain.RolePatient},
		PatientID:      patientID(i),
		TreatmentLabel: ptr.Ptr("Consultation"),
		Date:           types.DateString(date),
		Time:           types.TimeString(slot),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), patientRequest(1, "2025-06-10", "10:00"))

	require.NoError(t, err)
	appt := resp.Appointment
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, domain.StatusScheduled, appt.Status)
	assert.Equal(t, "Patient 1", appt.PatientDisplayName)
	assert.Equal(t, "Consultation", appt.TreatmentLabel)

	entry, err := f.store.BookedSlots().Get(context.Background(), appt.SlotKey())
	require.NoError(t, err)
	assert.Equal(t, appt.ID, entry.AppointmentID)
	assert.Equal(t, patientID(1), entry.PatientID)

	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, patientID(1), f.notifier.sent[0].RecipientID)
	assert.Equal(t, "Booking confirmed", f.notifier.sent[0].Title)
	assert.Equal(t, 1, f.metrics.results["success"])
}

func TestExecute_ConcurrentReservationsOfOneSlot(t *testing.T) {
	f := newFixture(t)

	const clients = 50
	var (
		wg       sync.WaitGroup
		start    = make(chan struct{})
		errs     = make([]error, clients)
		winnerID = make([]string, clients)
	)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			resp, err := f.uc.Execute(context.Background(), patientRequest(i, "2025-06-10", "10:00"))
			errs[i] = err
			if err == nil {
				winnerID[i] = resp.Appointment.ID
			}
		}(i)
	}
	close(start)
	wg.Wait()

	successes := 0
	for i, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrSlotAlreadyBooked, "client %d", i)
		assert.ErrorIs(t, err, domain.ErrConflict, "client %d", i)
	}
	assert.Equal(t, 1, successes)

	scheduled := domain.StatusScheduled
	date := types.DateString("2025-06-10")
	appts, err := f.store.Appointments().List(context.Background(), domain.AppointmentsFilter{Date: &date, Status: &scheduled})
	require.NoError(t, err)
	assert.Len(t, appts, 1)
	assert.NoError(t, f.store.VerifyIndex())
	assert.Equal(t, 1, f.notifier.count())
	assert.Equal(t, clients-1, f.metrics.results["already_booked"])
}

func TestExecute_LockedSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.SlotLocks().Upsert(ctx, &domain.SlotLock{
		Date: "2025-06-10", Time: "10:00", LockedBy: "staff-1",
	}))

	_, err := f.uc.Execute(ctx, patientRequest(1, "2025-06-10", "10:00"))
	assert.ErrorIs(t, err, domain.ErrSlotLocked)

	removed, err := f.store.SlotLocks().Delete(ctx, domain.SlotKey{Date: "2025-06-10", Time: "10:00"})
	require.NoError(t, err)
	require.True(t, removed)

	_, err = f.uc.Execute(ctx, patientRequest(1, "2025-06-10", "10:00"))
	assert.NoError(t, err)
}

func TestExecute_LockTakesPrecedenceOverBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, patientRequest(1, "2025-06-10", "10:00"))
	require.NoError(t, err)
	require.NoError(t, f.store.SlotLocks().Upsert(ctx, &domain.SlotLock{
		Date: "2025-06-10", Time: "10:00", LockedBy: "staff-1",
	}))

	_, err = f.uc.Execute(ctx, patientRequest(2, "2025-06-10", "10:00"))
	assert.ErrorIs(t, err, domain.ErrSlotLocked)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(req *Request)
		wantErr error
	}{
		{
			name:    "patient books for someone else",
			modify:  func(req *Request) { req.PatientID = patientID(2) },
			wantErr: domain.ErrForbidden,
		},
		{
			name: "unknown patient",
			modify: func(req *Request) {
				req.Actor = domain.Actor{ID: "staff-1", Role: domain.RoleStaff}
				req.PatientID = "ghost"
			},
			wantErr: domain.ErrUnknownIdentity,
		},
		{
			name: "booking for a staff member",
			modify: func(req *Request) {
				req.Actor = domain.Actor{ID: "staff-1", Role: domain.RoleStaff}
				req.PatientID = "staff-1"
			},
			wantErr: domain.ErrUnknownIdentity,
		},
		{
			name:    "time is not on the slot grid",
			modify:  func(req *Request) { req.Time = "10:15" },
			wantErr: domain.ErrInvalidSlot,
		},
		{
			name:    "time inside the break",
			modify:  func(req *Request) { req.Time = "12:00" },
			wantErr: domain.ErrInvalidSlot,
		},
		{
			name:    "slot in the past",
			modify:  func(req *Request) { req.Date = "2025-05-30" },
			wantErr: domain.ErrInvalidSlot,
		},
		{
			name:    "malformed time",
			modify:  func(req *Request) { req.Time = "25:00" },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing treatment",
			modify:  func(req *Request) { req.TreatmentLabel = nil },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown treatment id",
			modify:  func(req *Request) { req.TreatmentID = ptr.Ptr("whitening") },
			wantErr: domain.ErrTreatmentNotFound,
		},
		{
			name:    "system role is not a client",
			modify:  func(req *Request) { req.Actor = domain.SystemActor() },
			wantErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := patientRequest(1, "2025-06-10", "10:00")
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.notifier.count())
			assert.NoError(t, f.store.VerifyIndex())
		})
	}
}

func TestExecute_TreatmentFromCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Treatments().Upsert(ctx, &domain.Treatment{ID: "scaling", Label: "Scaling", Active: true})
	require.NoError(t, err)
	_, err = f.store.Treatments().Upsert(ctx, &domain.Treatment{ID: "implant", Label: "Implant", Active: false})
	require.NoError(t, err)

	req := patientRequest(1, "2025-06-10", "10:00")
	req.TreatmentID = ptr.Ptr("scaling")
	req.TreatmentLabel = nil

	resp, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Scaling", resp.Appointment.TreatmentLabel)
	assert.Equal(t, "scaling", *resp.Appointment.TreatmentID)

	req = patientRequest(2, "2025-06-10", "10:30")
	req.TreatmentID = ptr.Ptr("implant")
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, domain.ErrTreatmentNotFound)
}

func TestExecute_IdentityProviderFailure(t *testing.T) {
	f := newFixture(t)
	f.uc.users = failingDirectory{}

	_, err := f.uc.Execute(context.Background(), patientRequest(1, "2025-06-10", "10:00"))

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

type failingDirectory struct{}

func (failingDirectory) GetUser(ctx context.Context, userID string) (*userservice.User, error) {
	return nil, errors.New("connection refused")
}
