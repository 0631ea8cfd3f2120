package clear_queue

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

const (
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRequest     = "статус должен быть completed или cancelled"
	msgForbidden          = "очистка очереди доступна только персоналу"
)

type Handler struct {
	useCase BulkClearUseCase
	logger  Logger
}

func NewHandler(useCase BulkClearUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/queue/{date}/clear
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date, err := types.NewDateStringFromString(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("POST /queue/{date}/clear - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req ClearQueueRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /queue/{date}/clear - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor, date))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("POST /queue/{date}/clear - Access denied: actor=%s(%s)", actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /queue/{date}/clear - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("POST /queue/{date}/clear - Store unavailable: date=%s, error=%v", date, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /queue/{date}/clear - Failed to clear queue: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /queue/{date}/clear - Queue cleared: date=%s, status=%s, count=%d, failed=%d",
		date, req.Status, result.Count, len(result.Failed))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
