package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ReadyCheck именованная проверка зависимости для /readyz
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Healthz процесс жив
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz проверяет зависимости (хранилище, Redis) с таймаутом на каждую
func Readyz(checks ...ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var failures []string
		for _, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := check.Check(ctx)
			cancel()
			if err != nil {
				failures = append(failures, check.Name+": "+err.Error())
			}
		}

		if len(failures) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(strings.Join(failures, "; ")))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
