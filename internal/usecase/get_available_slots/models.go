package get_available_slots

import "github.com/m04kA/SMC-ClinicBookingService/pkg/types"

// Request модель запроса свободных слотов
type Request struct {
	Date types.DateString // Дата в часовом поясе клиники
}

// Response модель ответа со свободными слотами
type Response struct {
	Date         types.DateString
	Slots        []types.TimeString // По возрастанию
	IsHoliday    bool
	HolidayLabel *string
}
