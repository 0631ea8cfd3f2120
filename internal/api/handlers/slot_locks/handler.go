package slot_locks

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/slotlocks/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

const (
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgMissingDate        = "дата обязательна"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRequest     = "некорректные параметры блокировки"
	msgForbidden          = "блокировка слотов доступна только персоналу"
)

type Handler struct {
	service SlotLockService
	logger  Logger
}

func NewHandler(service SlotLockService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleLock PUT /api/v1/slot-locks/{date}/{time}
func (h *Handler) HandleLock(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date, slot, ok := h.parseSlot(w, r, "PUT /slot-locks/{date}/{time}")
	if !ok {
		return
	}

	// Тело необязательно: блокировка без причины
	var req models.LockRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PUT /slot-locks/{date}/{time} - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.service.Lock(r.Context(), actor, date, slot, req.Reason)
	if err != nil {
		h.respondError(w, "PUT /slot-locks/{date}/{time}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUnlock DELETE /api/v1/slot-locks/{date}/{time}
func (h *Handler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date, slot, ok := h.parseSlot(w, r, "DELETE /slot-locks/{date}/{time}")
	if !ok {
		return
	}

	result, err := h.service.Unlock(r.Context(), actor, date, slot)
	if err != nil {
		h.respondError(w, "DELETE /slot-locks/{date}/{time}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleList GET /api/v1/slot-locks?date=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := types.NewDateStringFromString(rawDate)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.List(r.Context(), actor, date)
	if err != nil {
		h.respondError(w, "GET /slot-locks", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) parseSlot(w http.ResponseWriter, r *http.Request, op string) (types.DateString, types.TimeString, bool) {
	vars := mux.Vars(r)

	date, err := types.NewDateStringFromString(vars["date"])
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return "", "", false
	}

	slot, err := types.NewTimeStringFromString(vars["time"])
	if err != nil {
		h.logger.Warn("%s - Invalid time: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return "", "", false
	}

	return date, slot, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		h.logger.Warn("%s - Access denied: %v", op, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, domain.ErrInvalidInput):
		h.logger.Warn("%s - Invalid request: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequest)

	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.Error("%s - Store unavailable: %v", op, err)
		handlers.RespondServiceUnavailable(w)

	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
