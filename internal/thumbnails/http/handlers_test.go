package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/protodeck/protodeck-backend/internal/figma"
)

type stubThumbs struct {
	err  error
	seen string
}

func (s *stubThumbs) Thumbnail(_ context.Context, u string) (*figma.Thumbnail, error) {
	s.seen = u
	if s.err != nil {
		return nil, s.err
	}
	return &figma.Thumbnail{URL: "https://img/x.png", FileID: "abc"}, nil
}

func newRouter(svc ThumbnailService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(svc).Register(r.Group("/api/v1/figma"))
	return r
}

func TestThumbnailHandlers(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		method string
		target string
		body   string
		status int
	}{
		{"post ok", nil, http.MethodPost, "/api/v1/figma/thumbnail", `{"figma_url":"https://www.figma.com/file/abc/x"}`, http.StatusOK},
		{"get ok", nil, http.MethodGet, "/api/v1/figma/thumbnail?url=https://www.figma.com/file/abc/x", "", http.StatusOK},
		{"missing url", nil, http.MethodPost, "/api/v1/figma/thumbnail", `{}`, http.StatusBadRequest},
		{"missing query", nil, http.MethodGet, "/api/v1/figma/thumbnail", "", http.StatusBadRequest},
		{"invalid url", figma.ErrInvalidURL, http.MethodGet, "/api/v1/figma/thumbnail?url=x", "", http.StatusBadRequest},
		{"not configured", figma.ErrNotConfigured, http.MethodGet, "/api/v1/figma/thumbnail?url=x", "", http.StatusBadRequest},
		{"upstream", fmt.Errorf("%w: status 403", figma.ErrUpstream), http.MethodGet, "/api/v1/figma/thumbnail?url=x", "", http.StatusBadGateway},
		{"no image", figma.ErrNoImage, http.MethodGet, "/api/v1/figma/thumbnail?url=x", "", http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(&stubThumbs{err: tc.err})
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tc.status, rr.Code, rr.Body.String())
		})
	}
}

func TestThumbnailHandlers_Body(t *testing.T) {
	svc := &stubThumbs{}
	r := newRouter(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/figma/thumbnail",
		strings.NewReader(`{"figma_url":"https://www.figma.com/proto/abc/flow"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true,"thumbnail":{"url":"https://img/x.png","file_id":"abc"}}`, rr.Body.String())
	assert.Equal(t, "https://www.figma.com/proto/abc/flow", svc.seen)
}
