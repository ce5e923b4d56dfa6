package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/internal/clients/domain"
	"github.com/protodeck/protodeck-backend/internal/logging"
)

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDefaultClient):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrClientExists):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	default:
		logging.FromContext(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}

func (h *Handler) listLabels(c *gin.Context) {
	labels, err := h.svc.ListLabels(c.Request.Context())
	if err != nil {
		writeError(c, "clients.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "clients": labels})
}

func (h *Handler) rename(c *gin.Context) {
	var req renameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.Rename(c.Request.Context(), req.OldClientLabel, req.NewClientLabel)
	if err != nil {
		writeError(c, "clients.rename", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"updated_count": res.UpdatedCount,
		"old_name":      res.OldName,
		"new_name":      res.NewName,
	})
}

func (h *Handler) getDescription(c *gin.Context) {
	desc, err := h.svc.GetDescription(c.Request.Context(), c.Param("label"))
	if err != nil {
		writeError(c, "clients.get_description", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "description": desc})
}

func (h *Handler) setDescription(c *gin.Context) {
	var req descriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	client, err := h.svc.SetDescription(c.Request.Context(), c.Param("label"), req.Description)
	if err != nil {
		writeError(c, "clients.set_description", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "client": client})
}

func (h *Handler) softDelete(c *gin.Context) {
	n, err := h.svc.SoftDeleteAll(c.Request.Context(), c.Param("label"))
	if err != nil {
		writeError(c, "clients.delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted_count": n})
}

func (h *Handler) listDeletedProjects(c *gin.Context) {
	items, err := h.svc.ListDeletedProjects(c.Request.Context(), c.Param("label"))
	if err != nil {
		writeError(c, "clients.deleted_projects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) listDeletedClients(c *gin.Context) {
	items, err := h.svc.ListDeletedClients(c.Request.Context())
	if err != nil {
		writeError(c, "clients.deleted", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "clients": items})
}

func (h *Handler) restoreAll(c *gin.Context) {
	n, err := h.svc.RestoreAll(c.Request.Context(), c.Param("label"))
	if err != nil {
		writeError(c, "clients.restore_all", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "restored_count": n})
}

func (h *Handler) restoreSelected(c *gin.Context) {
	var req restoreSelectedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project IDs"})
		return
	}

	n, err := h.svc.RestoreSelected(c.Request.Context(), c.Param("label"), req.ProjectIDs)
	if err != nil {
		writeError(c, "clients.restore_selected", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "restored_count": n})
}

func (h *Handler) permanentDelete(c *gin.Context) {
	n, err := h.svc.PermanentDeleteAll(c.Request.Context(), c.Param("label"))
	if err != nil {
		writeError(c, "clients.permanent_delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted_count": n})
}

func (h *Handler) sync(c *gin.Context) {
	res, err := h.svc.Sync(c.Request.Context())
	if err != nil {
		writeError(c, "clients.sync", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "synced": res.Synced, "clients": res.Clients})
}
