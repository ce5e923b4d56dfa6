package http

import "github.com/gin-gonic/gin"

// Register attaches authenticated project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/deleted", h.listDeleted)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id/rename", h.rename)
	rg.PATCH("/:id/label", h.setLabel)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/restore", h.restore)
	rg.DELETE("/:id/permanent", h.permanentDelete)
}

// RegisterPublic attaches the anonymous project page.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/:slug", h.publicBySlug)
}
