package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/internal/auth"
	"github.com/protodeck/protodeck-backend/internal/logging"
	"github.com/protodeck/protodeck-backend/internal/projects/domain"
)

// writeError maps domain errors to status codes and logs anything unexpected.
func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, domain.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": domain.ErrSlugTaken.Error()})
	case errors.Is(err, domain.ErrNotDeleted):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": domain.ErrNotDeleted.Error()})
	case errors.Is(err, domain.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": domain.ErrMissingFields.Error()})
	default:
		logging.FromContext(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), domain.CreateInput{
		Name:        req.Name,
		FigmaURL:    req.FigmaURL,
		ClientLabel: req.ClientLabel,
		CreatedBy:   auth.UserFirebaseUID(c),
	})
	if err != nil {
		writeError(c, "projects.create", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("client_label"))
	if err != nil {
		writeError(c, "projects.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) listDeleted(c *gin.Context) {
	items, err := h.svc.ListDeleted(c.Request.Context())
	if err != nil {
		writeError(c, "projects.list_deleted", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "projects.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) rename(c *gin.Context) {
	var req renameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if errors.Is(err, domain.ErrMissingFields) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "project name is required"})
		return
	}
	if err != nil {
		writeError(c, "projects.rename", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"project":  res.Project,
		"old_slug": res.OldSlug,
		"new_slug": res.NewSlug,
	})
}

func (h *Handler) setLabel(c *gin.Context) {
	var req labelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.SetClientLabel(c.Request.Context(), c.Param("id"), req.ClientLabel)
	if err != nil {
		writeError(c, "projects.set_label", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "projects.delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) restore(c *gin.Context) {
	p, err := h.svc.Restore(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "deleted project not found"})
		return
	}
	if err != nil {
		writeError(c, "projects.restore", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) permanentDelete(c *gin.Context) {
	res, err := h.svc.PermanentDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "projects.permanent_delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "freed_slug": res.FreedSlug, "freed_name": res.FreedName})
}

func (h *Handler) publicBySlug(c *gin.Context) {
	p, err := h.svc.PublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, "projects.public", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}
