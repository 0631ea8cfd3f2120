package slot_locks

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/slotlocks/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type SlotLockService interface {
	Lock(ctx context.Context, actor domain.Actor, date types.DateString, slot types.TimeString, reason *string) (*models.LockResultResponse, error)
	Unlock(ctx context.Context, actor domain.Actor, date types.DateString, slot types.TimeString) (*models.UnlockResultResponse, error)
	List(ctx context.Context, actor domain.Actor, date types.DateString) (*models.SlotLockListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
