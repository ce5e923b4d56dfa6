package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.GetProfile)
	rg.POST("/me/sync", h.SyncUser)
	rg.PUT("/me", h.UpdateProfile)
}
