package calendar

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/service/calendar/models"
)

// validateUpdateRequest проверяет формат переданных полей; инварианты
// календаря целиком проверяются после слияния
func validateUpdateRequest(req *models.UpdateCalendarRequest) error {
	if req.WorkingHours == nil && req.BreakWindow == nil && req.SlotDurationMinutes == nil && req.Holidays == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if req.WorkingHours != nil {
		if err := req.WorkingHours.Start.Validate(); err != nil {
			return fmt.Errorf("%w: workingHours.start: %v", ErrInvalidInput, err)
		}
		if err := req.WorkingHours.End.Validate(); err != nil {
			return fmt.Errorf("%w: workingHours.end: %v", ErrInvalidInput, err)
		}
	}

	// пустой перерыв допустим только как start == end
	if req.BreakWindow != nil && req.BreakWindow.Start != req.BreakWindow.End {
		if err := req.BreakWindow.Start.Validate(); err != nil {
			return fmt.Errorf("%w: breakWindow.start: %v", ErrInvalidInput, err)
		}
		if err := req.BreakWindow.End.Validate(); err != nil {
			return fmt.Errorf("%w: breakWindow.end: %v", ErrInvalidInput, err)
		}
	}

	if req.Holidays != nil {
		for _, h := range *req.Holidays {
			if err := h.Date.Validate(); err != nil {
				return fmt.Errorf("%w: holiday: %v", ErrInvalidInput, err)
			}
		}
	}

	return nil
}
