package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/internal/auth"
	"github.com/protodeck/protodeck-backend/internal/logging"
	"github.com/protodeck/protodeck-backend/internal/sharing/domain"
)

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingLabel), errors.Is(err, domain.ErrInvalidExpiry):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"ok": false, "error": err.Error()})
	default:
		logging.FromContext(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}

// requestBaseURL mirrors what the browser used to reach us.
func requestBaseURL(c *gin.Context) string {
	proto := c.GetHeader("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
	}
	host := c.Request.Host
	if host == "" {
		host = "localhost:3000"
	}
	return proto + "://" + host
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	link, err := h.svc.Create(c.Request.Context(), domain.CreateInput{
		ClientLabel:   req.ClientLabel,
		ExpiresInDays: req.ExpiresInDays,
		CreatedBy:     auth.UserFirebaseUID(c),
	})
	if err != nil {
		writeError(c, "share.create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "share_link": link})
}

func (h *Handler) list(c *gin.Context) {
	links, err := h.svc.List(c.Request.Context(), c.Query("client_label"), requestBaseURL(c))
	if err != nil {
		writeError(c, "share.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "share_links": links})
}

func (h *Handler) revoke(c *gin.Context) {
	if err := h.svc.Revoke(c.Request.Context(), c.Param("token")); err != nil {
		writeError(c, "share.revoke", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) resolve(c *gin.Context) {
	link, err := h.svc.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, "share.resolve", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "share_link": toResolution(link)})
}

func (h *Handler) projects(c *gin.Context) {
	link, items, err := h.svc.SharedProjects(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, "share.projects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "share_link": toResolution(link), "projects": items})
}
