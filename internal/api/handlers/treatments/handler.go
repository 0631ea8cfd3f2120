package treatments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/treatments/models"
)

const (
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActive      = "поле active обязательно"
	msgInvalidTreatment   = "некорректные данные процедуры"
	msgForbidden          = "изменять справочник может только персонал"
	msgNotFound           = "процедура не найдена"
)

type Handler struct {
	service TreatmentService
	logger  Logger
}

func NewHandler(service TreatmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/treatments
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), false)
	if err != nil {
		h.respondError(w, "GET /treatments", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpsert PUT /api/v1/treatments/{treatmentId}
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	treatmentID := mux.Vars(r)["treatmentId"]

	var req models.UpsertTreatmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /treatments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), actor, req.ToDomain(treatmentID))
	if err != nil {
		h.respondError(w, "PUT /treatments/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleSetActive PATCH /api/v1/treatments/{treatmentId}/active
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	treatmentID := mux.Vars(r)["treatmentId"]

	var req models.SetActiveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /treatments/{id}/active - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Active == nil {
		handlers.RespondBadRequest(w, msgMissingActive)
		return
	}

	result, err := h.service.SetActive(r.Context(), actor, treatmentID, *req.Active)
	if err != nil {
		h.respondError(w, "PATCH /treatments/{id}/active", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		h.logger.Warn("%s - Access denied: %v", op, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, domain.ErrNotFound):
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, domain.ErrInvalidInput):
		h.logger.Warn("%s - Invalid treatment: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidTreatment)

	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.Error("%s - Store unavailable: %v", op, err)
		handlers.RespondServiceUnavailable(w)

	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
