package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protodeck/protodeck-backend/internal/analytics/domain"
)

type fakeAnalytics struct {
	view    domain.View
	days    int
	label   string
	counted bool
	err     error
}

func (f *fakeAnalytics) TrackView(_ context.Context, v domain.View) (bool, error) {
	f.view = v
	if v.ProjectID == "" || v.ProjectSlug == "" {
		return false, domain.ErrInvalidInput
	}
	return f.counted, f.err
}

func (f *fakeAnalytics) Report(_ context.Context, days int, label string) (*domain.Report, error) {
	f.days, f.label = days, label
	return &domain.Report{
		Projects:  []domain.ProjectAnalytics{},
		DateRange: domain.DateRange{Start: "2025-03-01", End: "2025-03-10", Days: days},
	}, nil
}

func newRouter(svc AnalyticsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(svc)
	h.RegisterPublic(r.Group("/api/v1"))
	h.Register(r.Group("/api/v1"))
	return r
}

func TestTrackView(t *testing.T) {
	t.Run("records request metadata", func(t *testing.T) {
		svc := &fakeAnalytics{counted: true}
		r := newRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/track-view",
			strings.NewReader(`{"project_id":"p1","project_slug":"alpha"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Referer", "https://example.com/alpha")
		req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"ok":true,"counted":true}`, rr.Body.String())
		assert.Equal(t, "203.0.113.9", svc.view.IPAddress)
		assert.Equal(t, "test-agent", svc.view.UserAgent)
		assert.Equal(t, "https://example.com/alpha", svc.view.Referer)
	})

	t.Run("missing fields", func(t *testing.T) {
		r := newRouter(&fakeAnalytics{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/track-view", strings.NewReader(`{"project_id":"p1"}`))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown project", func(t *testing.T) {
		r := newRouter(&fakeAnalytics{err: domain.ErrProjectNotFound})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/track-view",
			strings.NewReader(`{"project_id":"p1","project_slug":"alpha"}`))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestReport(t *testing.T) {
	svc := &fakeAnalytics{}
	r := newRouter(svc)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.DefaultDays, svc.days)

	var body struct {
		OK        bool             `json:"ok"`
		DateRange domain.DateRange `json:"date_range"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, domain.DefaultDays, body.DateRange.Days)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/analytics?days=7&client_label=Acme", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 7, svc.days)
	assert.Equal(t, "Acme", svc.label)

	for _, bad := range []string{"0", "-3", "abc", "1.5"} {
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/analytics?days="+bad, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, bad)
	}
}
