package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/calendar/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
)

var (
	staff   = domain.Actor{ID: "staff-1", Role: domain.RoleStaff}
	patient = domain.Actor{ID: "patient-1", Role: domain.RolePatient}
)

func newService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return NewService(store.Calendar(), store.TxManager(), logger.NewNop()), store
}

func TestGet_Defaults(t *testing.T) {
	svc, _ := newService()

	cfg, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.TimeRange{Start: "09:00", End: "17:00"}, cfg.WorkingHours)
	require.NotNil(t, cfg.BreakWindow)
	assert.Equal(t, models.TimeRange{Start: "12:00", End: "13:00"}, *cfg.BreakWindow)
	assert.Equal(t, 30, cfg.SlotDurationMinutes)
	assert.Empty(t, cfg.Holidays)
	assert.Nil(t, cfg.UpdatedAt)
}

func TestUpdate_PartialMerge(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Update(ctx, &models.UpdateCalendarRequest{Actor: staff, SlotDurationMinutes: ptr.Ptr(45)})
	require.NoError(t, err)

	cfg, err := svc.Update(ctx, &models.UpdateCalendarRequest{
		Actor:       staff,
		BreakWindow: &models.TimeRange{Start: "00:00", End: "00:00"},
	})
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.SlotDurationMinutes)
	assert.Nil(t, cfg.BreakWindow)
	assert.Equal(t, models.TimeRange{Start: "09:00", End: "17:00"}, cfg.WorkingHours)
	assert.NotNil(t, cfg.UpdatedAt)

	stored, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, stored)
}

func TestUpdate_HolidaysReplaceWholeSet(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.AddHoliday(ctx, staff, "2025-04-13", "Songkran")
	require.NoError(t, err)

	cfg, err := svc.Update(ctx, &models.UpdateCalendarRequest{
		Actor:    staff,
		Holidays: &[]models.Holiday{{Date: "2025-12-31"}, {Date: "2025-12-25", Label: "Christmas"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.Holiday{
		{Date: "2025-12-25", Label: "Christmas"},
		{Date: "2025-12-31", Label: domain.DefaultHolidayLabel},
	}, cfg.Holidays)
}

func TestUpdate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.UpdateCalendarRequest
		wantErr error
	}{
		{
			name:    "patient",
			req:     &models.UpdateCalendarRequest{Actor: patient, SlotDurationMinutes: ptr.Ptr(15)},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "empty update",
			req:     &models.UpdateCalendarRequest{Actor: staff},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "start after end",
			req:     &models.UpdateCalendarRequest{Actor: staff, WorkingHours: &models.TimeRange{Start: "18:00", End: "08:00"}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "break outside working hours",
			req:     &models.UpdateCalendarRequest{Actor: staff, BreakWindow: &models.TimeRange{Start: "17:30", End: "18:00"}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "non-positive slot duration",
			req:     &models.UpdateCalendarRequest{Actor: staff, SlotDurationMinutes: ptr.Ptr(0)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "malformed time",
			req:     &models.UpdateCalendarRequest{Actor: staff, WorkingHours: &models.TimeRange{Start: "9:00", End: "17:00"}},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService()

			_, err := svc.Update(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)

			cfg, err := svc.Get(context.Background())
			require.NoError(t, err)
			assert.Nil(t, cfg.UpdatedAt, "rejected update must not be persisted")
		})
	}
}

func TestHolidays_Idempotent(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.AddHoliday(ctx, staff, "2025-12-25", "")
	require.NoError(t, err)
	cfg, err := svc.AddHoliday(ctx, staff, "2025-12-25", "Christmas")
	require.NoError(t, err)
	assert.Equal(t, []models.Holiday{{Date: "2025-12-25", Label: "Christmas"}}, cfg.Holidays)

	cfg, err = svc.RemoveHoliday(ctx, staff, "2025-12-25")
	require.NoError(t, err)
	assert.Empty(t, cfg.Holidays)

	_, err = svc.RemoveHoliday(ctx, staff, "2025-12-25")
	assert.NoError(t, err)

	_, err = svc.AddHoliday(ctx, patient, "2025-12-25", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
