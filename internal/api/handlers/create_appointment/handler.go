package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
)

const (
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlot        = "слот недоступен для записи"
	msgInvalidRequest     = "некорректные параметры записи"
	msgSlotLocked         = "слот заблокирован клиникой"
	msgSlotAlreadyBooked  = "слот уже занят"
	msgForbidden          = "нельзя записать другого пациента"
	msgUnknownPatient     = "пациент не найден"
	msgTreatmentNotFound  = "процедура не найдена"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq := req.ToUseCaseRequest(actor)

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotLocked):
			h.logger.Warn("POST /appointments - Slot locked: date=%s, time=%s", ucReq.Date, ucReq.Time)
			handlers.RespondConflict(w, msgSlotLocked)

		case errors.Is(err, domain.ErrSlotAlreadyBooked):
			h.logger.Warn("POST /appointments - Slot already booked: date=%s, time=%s", ucReq.Date, ucReq.Time)
			handlers.RespondConflict(w, msgSlotAlreadyBooked)

		case errors.Is(err, domain.ErrInvalidSlot):
			h.logger.Warn("POST /appointments - Invalid slot: date=%s, time=%s", ucReq.Date, ucReq.Time)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("POST /appointments - Access denied: actor=%s, patient_id=%s", actor.ID, ucReq.PatientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrUnknownIdentity):
			h.logger.Warn("POST /appointments - Unknown patient: patient_id=%s", ucReq.PatientID)
			handlers.RespondNotFound(w, msgUnknownPatient)

		case errors.Is(err, domain.ErrTreatmentNotFound):
			h.logger.Warn("POST /appointments - Treatment not found: %v", err)
			handlers.RespondNotFound(w, msgTreatmentNotFound)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("POST /appointments - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%s, patient_id=%s, slot=%s",
		result.Appointment.ID, result.Appointment.PatientID, result.Appointment.SlotKey())
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(result.Appointment))
}
