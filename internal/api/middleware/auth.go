package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgMissingIdentity = "не переданы заголовки X-User-ID и X-User-Role"
	msgInvalidRole     = "некорректная роль пользователя"
)

type ctxKey int

const ctxKeyActor ctxKey = iota

// Auth извлекает идентичность вызывающего из заголовков шлюза.
// Подпись не проверяется: заголовки выставляет доверенный identity provider
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		rawRole := strings.TrimSpace(r.Header.Get(HeaderUserRole))
		if userID == "" || rawRole == "" {
			handlers.RespondUnauthorized(w, msgMissingIdentity)
			return
		}

		role, err := domain.ParseClientRole(rawRole)
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidRole)
			return
		}

		ctx := WithActor(r.Context(), domain.Actor{ID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithActor кладет актора в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}

// ActorFromContext возвращает актора, положенного Auth
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(domain.Actor)
	return actor, ok
}
