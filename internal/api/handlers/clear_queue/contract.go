package clear_queue

import (
	"context"

	bulkClear "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/bulk_clear"
)

type BulkClearUseCase interface {
	Execute(ctx context.Context, req *bulkClear.Request) (*bulkClear.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
