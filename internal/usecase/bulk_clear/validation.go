package bulk_clear

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := req.Actor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := req.Date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Target != domain.StatusCompleted && req.Target != domain.StatusCancelled {
		return fmt.Errorf("%w: target must be %s or %s", ErrInvalidInput, domain.StatusCompleted, domain.StatusCancelled)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	return nil
}
