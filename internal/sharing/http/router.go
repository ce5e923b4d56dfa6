package http

import "github.com/gin-gonic/gin"

// Register attaches link management routes; callers must be authenticated.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.DELETE("/:token", h.revoke)
}

// RegisterPublic attaches the token-gated read routes.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/:token", h.resolve)
	rg.GET("/:token/projects", h.projects)
}
