package update_calendar

// HolidayRequest HTTP request model
type HolidayRequest struct {
	Label string `json:"label"`
}
