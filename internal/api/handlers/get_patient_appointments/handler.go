package get_patient_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

const (
	msgUnauthorized  = "требуется аутентификация"
	msgInvalidStatus = "некорректный фильтр статуса"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/patients/{patientId}/appointments
// Query params: status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	patientID := mux.Vars(r)["patientId"]

	status, err := parseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		h.logger.Warn("GET /patients/{id}/appointments - Invalid status filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	result, err := h.service.ListByPatient(r.Context(), actor, patientID, status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("GET /patients/{id}/appointments - Store unavailable: patient_id=%s, error=%v", patientID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /patients/{id}/appointments - Failed to list: patient_id=%s, error=%v", patientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseStatusFilter(raw string) (*domain.AppointmentStatus, error) {
	if raw == "" {
		return nil, nil
	}
	status, err := domain.ParseAppointmentStatus(raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
