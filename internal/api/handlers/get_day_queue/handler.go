package get_day_queue

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

const (
	msgUnauthorized  = "требуется аутентификация"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus = "некорректный фильтр статуса"
	msgForbidden     = "очередь доступна только персоналу"
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

// Handle GET /api/v1/queue/{date}
// Query params: status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date, err := types.NewDateStringFromString(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("GET /queue/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var status *domain.AppointmentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ParseAppointmentStatus(raw)
		if err != nil {
			h.logger.Warn("GET /queue/{date} - Invalid status filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		status = &parsed
	}

	result, err := h.service.ListByDate(r.Context(), actor, date, status)
	h.respond(w, "GET /queue/{date}", result, err)
}

// HandleUpcoming GET /api/v1/queue
func (h *Handler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.ListUpcoming(r.Context(), actor)
	h.respond(w, "GET /queue", result, err)
}

func (h *Handler) respond(w http.ResponseWriter, op string, result *models.AppointmentListResponse, err error) {
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("%s - Access denied: %v", op, err)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("%s - Store unavailable: %v", op, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("%s - Failed to list queue: %v", op, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
