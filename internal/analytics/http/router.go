package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the view beacon. Extra middleware (rate limiting)
// runs before the handler.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/track-view", append(mw, h.trackView)...)
}

// Register attaches the dashboard report; callers must be authenticated.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/analytics", h.report)
}
