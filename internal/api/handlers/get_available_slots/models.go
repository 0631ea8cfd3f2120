package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date         string   `json:"date"`
	Slots        []string `json:"slots"`
	IsHoliday    bool     `json:"isHoliday"`
	HolidayLabel *string  `json:"holidayLabel,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{
		Date:         resp.Date.String(),
		Slots:        slots,
		IsHoliday:    resp.IsHoliday,
		HolidayLabel: resp.HolidayLabel,
	}
}
