package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
)

var (
	anna  = domain.Actor{ID: "anna", Role: domain.RolePatient}
	boris = domain.Actor{ID: "boris", Role: domain.RolePatient}
)

func seeded(t *testing.T) *Service {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	for _, n := range []*domain.Notification{
		{ID: "n-1", RecipientID: anna.ID, Title: "Booking confirmed"},
		{ID: "n-2", RecipientID: anna.ID, Title: "Booking cancelled"},
		{ID: "n-3", RecipientID: boris.ID, Title: "Booking confirmed"},
	} {
		require.NoError(t, store.Notifications().Create(ctx, n))
	}

	return NewService(store.Notifications(), logger.NewNop())
}

func TestListForRecipient(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	resp, err := svc.ListForRecipient(ctx, anna, false)
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, 2, resp.Unread)

	require.NoError(t, svc.MarkRead(ctx, anna, "n-1"))

	resp, err = svc.ListForRecipient(ctx, anna, true)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "n-2", resp.Notifications[0].ID)
}

func TestMarkRead(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.MarkRead(ctx, anna, "n-3"), domain.ErrForbidden)
	assert.ErrorIs(t, svc.MarkRead(ctx, anna, "missing"), domain.ErrNotificationNotFound)

	require.NoError(t, svc.MarkRead(ctx, boris, "n-3"))
	// повторная отметка не ошибка
	require.NoError(t, svc.MarkRead(ctx, boris, "n-3"))
}
