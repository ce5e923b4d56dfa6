package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func doHealth(t *testing.T, h *HealthHandler, method, path string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	h.RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, nil))

	var resp HealthResponse
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestHealthCheck(t *testing.T) {
	rr, resp := doHealth(t, NewHealthHandler("test-service", "1.0.0", nil), http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test-service", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "disabled", resp.DB)
}

func TestHealthCheck_DBStatus(t *testing.T) {
	_, up := doHealth(t, NewHealthHandler("svc", "1", stubPinger{}), http.MethodGet, "/healthz")
	assert.Equal(t, "up", up.DB)

	_, down := doHealth(t, NewHealthHandler("svc", "1", stubPinger{err: errors.New("refused")}), http.MethodGet, "/healthz")
	assert.Equal(t, "down", down.DB)
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr, _ := doHealth(t, NewHealthHandler("test-service", "1.0.0", nil), http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
