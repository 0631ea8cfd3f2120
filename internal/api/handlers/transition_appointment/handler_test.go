package transition_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	transitionAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/transition_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
)

type fakeUseCase struct {
	got *transitionAppointment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *transitionAppointment.Request) (*transitionAppointment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &transitionAppointment.Response{Appointment: &domain.Appointment{
		ID:           req.AppointmentID,
		PatientID:    "anna",
		Date:         "2025-06-10",
		Time:         "10:00",
		Status:       req.Target,
		CancelReason: req.Reason,
	}}, nil
}

func patch(uc TransitionAppointmentUseCase, body, userID, role string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/appointments/{appointmentId}/status", NewHandler(uc, logger.NewNop()).Handle).
		Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/appt-1/status", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, userID)
	req.Header.Set(middleware.HeaderUserRole, role)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandle_Cancelled(t *testing.T) {
	uc := &fakeUseCase{}
	w := patch(uc, `{"status":"cancelled","reason":"feeling better"}`, "anna", "patient")

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp["status"])
	assert.Equal(t, "feeling better", resp["cancelReason"])

	assert.Equal(t, "appt-1", uc.got.AppointmentID)
	assert.Equal(t, domain.StatusCancelled, uc.got.Target)
	assert.Equal(t, domain.Actor{ID: "anna", Role: domain.RolePatient}, uc.got.Actor)
}

func TestHandle_UnknownStatus(t *testing.T) {
	uc := &fakeUseCase{}
	w := patch(uc, `{"status":"postponed"}`, "dr-1", "staff")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, uc.got)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: domain.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{name: "lead time", err: fmt.Errorf("check: %w", domain.ErrLeadTimeViolation), wantStatus: http.StatusForbidden},
		{name: "forbidden", err: domain.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "terminal status", err: domain.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "reason too long", err: domain.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "store unavailable", err: domain.ErrStoreUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "unexpected", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := patch(&fakeUseCase{err: tt.err}, `{"status":"completed"}`, "dr-1", "staff")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
