package update_calendar

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/calendar/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

const (
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidCalendar    = "некорректная конфигурация календаря"
	msgForbidden          = "изменять календарь может только персонал"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.UpdateCalendarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /calendar - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Actor = actor

	cfg, err := h.service.Update(r.Context(), &req)
	if err != nil {
		h.respondError(w, "PATCH /calendar", err)
		return
	}

	h.logger.Info("PATCH /calendar - Calendar updated by %s", actor.ID)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}

// HandleAddHoliday PUT /api/v1/calendar/holidays/{date}
func (h *Handler) HandleAddHoliday(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date, err := types.NewDateStringFromString(mux.Vars(r)["date"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req HolidayRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PUT /calendar/holidays/{date} - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	cfg, err := h.service.AddHoliday(r.Context(), actor, date, req.Label)
	if err != nil {
		h.respondError(w, "PUT /calendar/holidays/{date}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, cfg)
}

// HandleRemoveHoliday DELETE /api/v1/calendar/holidays/{date}
func (h *Handler) HandleRemoveHoliday(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date, err := types.NewDateStringFromString(mux.Vars(r)["date"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	cfg, err := h.service.RemoveHoliday(r.Context(), actor, date)
	if err != nil {
		h.respondError(w, "DELETE /calendar/holidays/{date}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, cfg)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		h.logger.Warn("%s - Access denied: %v", op, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, domain.ErrInvalidInput):
		h.logger.Warn("%s - Invalid calendar: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidCalendar)

	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.Error("%s - Store unavailable: %v", op, err)
		handlers.RespondServiceUnavailable(w)

	default:
		h.logger.Error("%s - Failed to update calendar: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
