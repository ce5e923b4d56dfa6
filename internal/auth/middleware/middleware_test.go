package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/protodeck/protodeck-backend/internal/auth"
)

type stubVerifier struct {
	token *fbauth.Token
	err   error
	got   string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	s.got = idToken
	return s.token, s.err
}

func newEngine(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/who", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": auth.UserFirebaseUID(c), "email": auth.UserEmail(c)})
	})
	return r
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		r := newEngine(FirebaseAuthMiddleware(&stubVerifier{}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		r := newEngine(FirebaseAuthMiddleware(&stubVerifier{err: errors.New("expired")}))
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set("Authorization", "Bearer abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets uid and email", func(t *testing.T) {
		v := &stubVerifier{token: &fbauth.Token{UID: "fb-9", Claims: map[string]interface{}{"email": "x@y.z"}}}
		r := newEngine(FirebaseAuthMiddleware(v))
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set("Authorization", "bearer tok-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tok-1", v.got)
		assert.JSONEq(t, `{"uid":"fb-9","email":"x@y.z"}`, w.Body.String())
	})
}

func TestDevUser(t *testing.T) {
	r := newEngine(DevUser())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.JSONEq(t, `{"uid":"demo-user","email":""}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("X-User-Id", "alice")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"uid":"alice","email":""}`, w.Body.String())
}
