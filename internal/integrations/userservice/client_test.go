package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
)

func TestClient_GetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/users/patient-1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"patient-1","name":"Anna Ivanova","role":"patient"}`))
		case "/internal/users/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second, logger.NewNop())

	t.Run("found", func(t *testing.T) {
		user, err := client.GetUser(context.Background(), "patient-1")
		require.NoError(t, err)
		assert.Equal(t, "Anna Ivanova", user.DisplayName())
		assert.Equal(t, "patient", user.Role)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetUser(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("upstream failure", func(t *testing.T) {
		_, err := client.GetUser(context.Background(), "broken")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := client.GetUser(context.Background(), "")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestStaticDirectory(t *testing.T) {
	dir := NewStaticDirectory(User{ID: "staff-1", Role: "staff"})

	user, err := dir.GetUser(context.Background(), "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", user.DisplayName())

	_, err = dir.GetUser(context.Background(), "patient-1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
