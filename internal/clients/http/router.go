package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.listLabels)
	rg.GET("/deleted", h.listDeletedClients)
	rg.PATCH("/rename", h.rename)
	rg.POST("/sync", h.sync)

	rg.GET("/:label/description", h.getDescription)
	rg.PUT("/:label/description", h.setDescription)
	rg.DELETE("/:label", h.softDelete)
	rg.GET("/:label/projects", h.listDeletedProjects)
	rg.POST("/:label/restore-all", h.restoreAll)
	rg.POST("/:label/restore-selected", h.restoreSelected)
	rg.DELETE("/:label/permanent", h.permanentDelete)
}
