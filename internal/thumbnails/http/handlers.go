package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/internal/figma"
	"github.com/protodeck/protodeck-backend/internal/logging"
)

// ThumbnailService is implemented by thumbnails.Service.
type ThumbnailService interface {
	Thumbnail(ctx context.Context, figmaURL string) (*figma.Thumbnail, error)
}

type Handler struct {
	svc ThumbnailService
}

func New(svc ThumbnailService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/thumbnail", h.post)
	rg.GET("/thumbnail", h.get)
}

type thumbnailReq struct {
	FigmaURL string `json:"figma_url"`
}

func (h *Handler) post(c *gin.Context) {
	var req thumbnailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	h.respond(c, req.FigmaURL)
}

func (h *Handler) get(c *gin.Context) {
	h.respond(c, c.Query("url"))
}

func (h *Handler) respond(c *gin.Context, figmaURL string) {
	if strings.TrimSpace(figmaURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "figma url is required"})
		return
	}

	t, err := h.svc.Thumbnail(c.Request.Context(), figmaURL)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true, "thumbnail": t})
	case errors.Is(err, figma.ErrInvalidURL), errors.Is(err, figma.ErrNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, figma.ErrUpstream), errors.Is(err, figma.ErrNoImage):
		logging.FromContext(c.Request.Context()).Warnf("thumbnails.fetch", "%v", err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "failed to fetch thumbnail from figma"})
	default:
		logging.FromContext(c.Request.Context()).Error("thumbnails.fetch", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
