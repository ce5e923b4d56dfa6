package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protodeck/protodeck-backend/config"
	"github.com/protodeck/protodeck-backend/internal/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}, PublicBaseURL: "http://localhost:3000"},
		Figma:     config.FigmaConfig{APIURL: "https://api.figma.com", EmbedHost: "protodeck"},
		Analytics: config.AnalyticsConfig{TrackViewRateLimit: 5, MaxDays: 365},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := testConfig()
	return BuildRouter(RouterDeps{
		ServiceName: "protodeck",
		Version:     "test",
		Config:      cfg,
		Services:    BuildServices(db, nil, cfg),
		Auth: func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		},
	})
}

func TestBuildRouter(t *testing.T) {
	r := newTestRouter(t)

	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"db":"disabled"`)
		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	})

	t.Run("metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "protodeck_http_requests_total")
	})

	t.Run("protected routes need auth", func(t *testing.T) {
		for _, path := range []string{"/api/v1/projects", "/api/v1/clients", "/api/v1/analytics", "/api/v1/me"} {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
		}
	})

	t.Run("public beacon skips auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/track-view", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestBuildRouter_EscapedClientLabel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := testConfig()
	r := BuildRouter(RouterDeps{
		ServiceName: "protodeck",
		Version:     "test",
		Config:      cfg,
		Services:    BuildServices(db, nil, cfg),
		Auth: func(c *gin.Context) {
			c.Set(auth.CtxFirebaseUID, "uid-1")
			c.Next()
		},
	})

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("uid-1", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
	mock.ExpectQuery("SELECT description FROM clients").
		WithArgs("Acme/Beta").
		WillReturnRows(sqlmock.NewRows([]string{"description"}).AddRow("Beta team"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/clients/Acme%2FBeta/description", nil))

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"description":"Beta team"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)
	SetGinMode("production")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
}
