package clear_queue

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	bulkClear "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/bulk_clear"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// ClearQueueRequest HTTP request model
type ClearQueueRequest struct {
	Status string  `json:"status"` // completed | cancelled
	Reason *string `json:"reason,omitempty"`
}

// ClearQueueResponse HTTP response model
type ClearQueueResponse struct {
	Count  int      `json:"count"`
	Failed []string `json:"failed"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *ClearQueueRequest) ToUseCaseRequest(actor domain.Actor, date types.DateString) *bulkClear.Request {
	return &bulkClear.Request{
		Actor:  actor,
		Date:   date,
		Target: domain.AppointmentStatus(r.Status),
		Reason: r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bulkClear.Response) *ClearQueueResponse {
	failed := resp.Failed
	if failed == nil {
		failed = []string{}
	}
	return &ClearQueueResponse{Count: resp.Count, Failed: failed}
}
