package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var clinicTZ = time.FixedZone("ICT", 7*60*60)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newUseCase(store *memory.Store, now time.Time) *UseCase {
	return NewUseCase(
		store.Calendar(),
		store.BookedSlots(),
		store.SlotLocks(),
		store.TxManager(),
		clinicTZ,
		logger.NewNop(),
	).WithTimeProvider(fixedClock{now: now})
}

func slots(values ...string) []types.TimeString {
	result := make([]types.TimeString, 0, len(values))
	for _, v := range values {
		result = append(result, types.TimeString(v))
	}
	return result
}

func TestExecute_DefaultCalendar(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, time.Date(2025, 6, 1, 8, 0, 0, 0, clinicTZ))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-06-10"})

	require.NoError(t, err)
	assert.False(t, resp.IsHoliday)
	assert.Equal(t, slots(
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
	), resp.Slots)
}

func TestExecute_Holiday(t *testing.T) {
	store := memory.NewStore()
	cfg := domain.DefaultCalendarConfig()
	cfg.SetHoliday("2025-12-25", "Christmas")
	_, err := store.Calendar().Save(context.Background(), cfg)
	require.NoError(t, err)

	uc := newUseCase(store, time.Date(2025, 6, 1, 8, 0, 0, 0, clinicTZ))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-12-25"})

	require.NoError(t, err)
	assert.True(t, resp.IsHoliday)
	require.NotNil(t, resp.HolidayLabel)
	assert.Equal(t, "Christmas", *resp.HolidayLabel)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ExcludesBookedAndLocked(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.BookedSlots().Insert(ctx, &domain.BookedSlot{
		Date: "2025-06-10", Time: "09:30", PatientID: "p-1", AppointmentID: "a-1",
	}))
	require.NoError(t, store.SlotLocks().Upsert(ctx, &domain.SlotLock{
		Date: "2025-06-10", Time: "14:00", LockedBy: "staff-1",
	}))
	require.NoError(t, store.SlotLocks().Upsert(ctx, &domain.SlotLock{
		Date: "2025-06-11", Time: "10:00", LockedBy: "staff-1",
	}))

	uc := newUseCase(store, time.Date(2025, 6, 1, 8, 0, 0, 0, clinicTZ))

	resp, err := uc.Execute(ctx, &Request{Date: "2025-06-10"})

	require.NoError(t, err)
	assert.NotContains(t, resp.Slots, types.TimeString("09:30"))
	assert.NotContains(t, resp.Slots, types.TimeString("14:00"))
	assert.Contains(t, resp.Slots, types.TimeString("10:00"))
	assert.Len(t, resp.Slots, 12)
}

func TestExecute_TodayOnlyFutureSlots(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, time.Date(2025, 6, 10, 10, 15, 0, 0, clinicTZ))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-06-10"})

	require.NoError(t, err)
	assert.Equal(t, slots(
		"10:30", "11:00", "11:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
	), resp.Slots)
}

func TestExecute_SlotStartingNowIsExcluded(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, time.Date(2025, 6, 10, 16, 30, 0, 0, clinicTZ))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-06-10"})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ClockInOtherZone(t *testing.T) {
	store := memory.NewStore()
	// 03:15 UTC = 10:15 в клинике
	uc := newUseCase(store, time.Date(2025, 6, 10, 3, 15, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-06-10"})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[0])
}

func TestExecute_PastDate(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, time.Date(2025, 6, 10, 8, 0, 0, 0, clinicTZ))

	resp, err := uc.Execute(context.Background(), &Request{Date: "2025-06-09"})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InvalidDate(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, time.Date(2025, 6, 10, 8, 0, 0, 0, clinicTZ))

	tests := []types.DateString{"", "2025-13-01", "10.06.2025"}
	for _, date := range tests {
		_, err := uc.Execute(context.Background(), &Request{Date: date})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "date %q", date)
	}
}
