package transition_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
)

const (
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус, ожидается completed, cancelled или missed"
	msgInvalidRequest     = "некорректные параметры запроса"
	msgNotFound           = "запись не найдена"
	msgForbidden          = "доступ запрещен"
	msgLeadTime           = "до приема осталось слишком мало времени для отмены"
	msgInvalidTransition  = "переход в этот статус невозможен"
)

type Handler struct {
	useCase TransitionAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase TransitionAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID := mux.Vars(r)["appointmentId"]

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(appointmentID, actor)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid status: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/status - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrLeadTimeViolation):
			h.logger.Warn("PATCH /appointments/{id}/status - Lead time violation: appointment_id=%s, actor=%s",
				appointmentID, actor.ID)
			handlers.RespondForbidden(w, msgLeadTime)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PATCH /appointments/{id}/status - Access denied: appointment_id=%s, actor=%s(%s)",
				appointmentID, actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/{id}/status - Invalid transition: appointment_id=%s, target=%s",
				appointmentID, ucReq.Target)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/status - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("PATCH /appointments/{id}/status - Store unavailable: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /appointments/{id}/status - Failed to transition: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status changed successfully: appointment_id=%s, status=%s, actor=%s",
		appointmentID, result.Appointment.Status, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointment(result.Appointment))
}
