package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 string    `json:"id"`
	PatientID          string    `json:"patientId"`
	PatientDisplayName string    `json:"patientDisplayName"`
	TreatmentID        *string   `json:"treatmentId,omitempty"`
	TreatmentLabel     string    `json:"treatmentLabel"`
	Date               string    `json:"date"` // "2025-06-10"
	Time               string    `json:"time"` // "10:00"
	Status             string    `json:"status"`
	CancelReason       *string   `json:"cancelReason,omitempty"`
	StatusChangedBy    *string   `json:"statusChangedBy,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// FromDomainAppointment конвертирует доменную модель в ответ
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		PatientDisplayName: a.PatientDisplayName,
		TreatmentID:        a.TreatmentID,
		TreatmentLabel:     a.TreatmentLabel,
		Date:               a.Date.String(),
		Time:               a.Time.String(),
		Status:             string(a.Status),
		CancelReason:       a.CancelReason,
		StatusChangedBy:    a.StatusChangedBy,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointments конвертирует список
func FromDomainAppointments(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}
