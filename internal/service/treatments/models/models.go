package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// UpsertTreatmentRequest тело запроса на создание/обновление процедуры
type UpsertTreatmentRequest struct {
	Label           string   `json:"label"`
	Active          *bool    `json:"active,omitempty"` // по умолчанию true
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	SortOrder       int      `json:"sortOrder"`
}

// SetActiveRequest тело запроса на включение/выключение процедуры
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// TreatmentResponse процедура
type TreatmentResponse struct {
	ID              string    `json:"id"`
	Label           string    `json:"label"`
	Active          bool      `json:"active"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	SortOrder       int       `json:"sortOrder"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TreatmentListResponse список процедур
type TreatmentListResponse struct {
	Treatments []TreatmentResponse `json:"treatments"`
}

// ToDomain собирает доменную модель по идентификатору из пути
func (r *UpsertTreatmentRequest) ToDomain(id string) *domain.Treatment {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domain.Treatment{
		ID:              id,
		Label:           r.Label,
		Active:          active,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		SortOrder:       r.SortOrder,
	}
}

// FromDomainTreatment конвертирует доменную модель в ответ
func FromDomainTreatment(t *domain.Treatment) TreatmentResponse {
	return TreatmentResponse{
		ID:              t.ID,
		Label:           t.Label,
		Active:          t.Active,
		DurationMinutes: t.DurationMinutes,
		Price:           t.Price,
		SortOrder:       t.SortOrder,
		UpdatedAt:       t.UpdatedAt,
	}
}
