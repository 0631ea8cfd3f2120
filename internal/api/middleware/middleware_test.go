package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
)

func echoActor(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(actor.ID + "/" + string(actor.Role)))
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		wantBody   string
	}{
		{name: "patient", userID: "anna", role: "patient", wantStatus: http.StatusOK, wantBody: "anna/patient"},
		{name: "staff", userID: "dr-who", role: "staff", wantStatus: http.StatusOK, wantBody: "dr-who/staff"},
		{name: "missing user", role: "staff", wantStatus: http.StatusUnauthorized},
		{name: "missing role", userID: "anna", wantStatus: http.StatusUnauthorized},
		{name: "system role is not accepted from clients", userID: "anna", role: "system", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				r.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				r.Header.Set(HeaderUserRole, tt.role)
			}
			w := httptest.NewRecorder()

			Auth(http.HandlerFunc(echoActor)).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

// fakeScripter считает вызовы скрипта как INCR без TTL
type fakeScripter struct {
	counts map[string]int64
	err    error
}

func (f *fakeScripter) run(ctx context.Context, keys []string) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.counts[keys[0]]++
	cmd.SetVal(f.counts[keys[0]])
	return cmd
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) EvalSha(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) EvalRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) EvalShaRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (f *fakeScripter) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	rdb := &fakeScripter{counts: map[string]int64{}}
	limited := NewRateLimiter(rdb, 2, time.Minute, "test", true, logger.NewNop()).
		Middleware()(http.HandlerFunc(okHandler))

	call := func(userID string) int {
		r := httptest.NewRequest(http.MethodPost, "/appointments", nil)
		r = r.WithContext(WithActor(r.Context(), domain.Actor{ID: userID, Role: domain.RolePatient}))
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("anna"))
	assert.Equal(t, http.StatusOK, call("anna"))
	assert.Equal(t, http.StatusTooManyRequests, call("anna"))
	assert.Equal(t, http.StatusOK, call("boris"))
	assert.Equal(t, int64(3), rdb.counts["test:user:anna"])
}

func TestRateLimiter_RedisDown(t *testing.T) {
	rdb := &fakeScripter{err: errors.New("connection refused")}

	for _, tc := range []struct {
		failOpen   bool
		wantStatus int
	}{
		{failOpen: true, wantStatus: http.StatusOK},
		{failOpen: false, wantStatus: http.StatusServiceUnavailable},
	} {
		h := NewRateLimiter(rdb, 1, time.Minute, "test", tc.failOpen, logger.NewNop()).
			Middleware()(http.HandlerFunc(okHandler))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, tc.wantStatus, w.Code, "failOpen=%t", tc.failOpen)
	}
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer("test", reg)

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/appointments/{appointmentId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"a-1", "a-2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments/"+id, nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/appointments/{appointmentId}", "404"))
	assert.Equal(t, float64(2), got)
}

func TestReadyz(t *testing.T) {
	healthy := ReadyCheck{Name: "store", Check: func(context.Context) error { return nil }}
	broken := ReadyCheck{Name: "redis", Check: func(context.Context) error { return errors.New("dial timeout") }}

	w := httptest.NewRecorder()
	Readyz(healthy)(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	Readyz(healthy, broken)(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis: dial timeout")
}
