package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.Date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// validateDate проверяет, что дата не раньше сегодняшней в часовом поясе клиники
func validateDate(date types.DateString, now time.Time) error {
	if date.Before(types.NewDateString(now)) {
		return errPastDate
	}
	return nil
}
