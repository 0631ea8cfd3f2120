package notifications

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

const (
	msgUnauthorized = "требуется аутентификация"
	msgNotFound     = "уведомление не найдено"
	msgForbidden    = "доступ запрещен"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/notifications
// Query params: unread=true (optional)
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	result, err := h.service.ListForRecipient(r.Context(), actor, unreadOnly)
	if err != nil {
		h.logger.Error("GET /notifications - Failed to list: recipient=%s, error=%v", actor.ID, err)
		if errors.Is(err, domain.ErrStoreUnavailable) {
			handlers.RespondServiceUnavailable(w)
			return
		}
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleMarkRead PATCH /api/v1/notifications/{notificationId}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	notificationID := mux.Vars(r)["notificationId"]

	if err := h.service.MarkRead(r.Context(), actor, notificationID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PATCH /notifications/{id}/read - Access denied: notification_id=%s, actor=%s",
				notificationID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrStoreUnavailable):
			h.logger.Error("PATCH /notifications/{id}/read - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /notifications/{id}/read - Failed: notification_id=%s, error=%v", notificationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
