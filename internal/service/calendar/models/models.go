package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Request модели

// TimeRange интервал времени суток [start, end)
type TimeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Holiday выходной день клиники
type Holiday struct {
	Date  types.DateString `json:"date"`
	Label string           `json:"label,omitempty"`
}

// UpdateCalendarRequest частичное обновление календаря.
// Переданные поля заменяют текущие; Holidays, если передан, заменяет весь набор.
// Перерыв нулевой длины (start == end) удаляет перерыв.
type UpdateCalendarRequest struct {
	Actor               domain.Actor `json:"-"`
	WorkingHours        *TimeRange   `json:"workingHours,omitempty"`
	BreakWindow         *TimeRange   `json:"breakWindow,omitempty"`
	SlotDurationMinutes *int         `json:"slotDurationMinutes,omitempty"`
	Holidays            *[]Holiday   `json:"holidays,omitempty"`
}

// Response модели

// CalendarResponse текущий календарь клиники
type CalendarResponse struct {
	WorkingHours        TimeRange  `json:"workingHours"`
	BreakWindow         *TimeRange `json:"breakWindow"` // null - без перерыва
	SlotDurationMinutes int        `json:"slotDurationMinutes"`
	Holidays            []Holiday  `json:"holidays"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"` // null - значения по умолчанию
}

// FromDomainCalendar конвертирует доменную модель в ответ
func FromDomainCalendar(cfg *domain.CalendarConfig) *CalendarResponse {
	resp := &CalendarResponse{
		WorkingHours:        TimeRange{Start: cfg.WorkingHours.Start, End: cfg.WorkingHours.End},
		SlotDurationMinutes: cfg.SlotDurationMinutes,
		Holidays:            make([]Holiday, 0, len(cfg.Holidays)),
	}
	if cfg.HasBreak() {
		resp.BreakWindow = &TimeRange{Start: cfg.BreakWindow.Start, End: cfg.BreakWindow.End}
	}
	for _, h := range cfg.Holidays {
		resp.Holidays = append(resp.Holidays, Holiday{Date: h.Date, Label: h.Label})
	}
	if !cfg.UpdatedAt.IsZero() {
		updatedAt := cfg.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// ApplyTo накладывает переданные поля на конфигурацию
func (r *UpdateCalendarRequest) ApplyTo(cfg *domain.CalendarConfig) {
	if r.WorkingHours != nil {
		cfg.WorkingHours = domain.TimeRange{Start: r.WorkingHours.Start, End: r.WorkingHours.End}
	}
	if r.BreakWindow != nil {
		cfg.BreakWindow = domain.TimeRange{Start: r.BreakWindow.Start, End: r.BreakWindow.End}
	}
	if r.SlotDurationMinutes != nil {
		cfg.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.Holidays != nil {
		cfg.Holidays = make([]domain.Holiday, 0, len(*r.Holidays))
		for _, h := range *r.Holidays {
			cfg.Holidays = append(cfg.Holidays, domain.Holiday{Date: h.Date, Label: h.Label})
		}
		cfg.NormalizeHolidays()
	}
}
