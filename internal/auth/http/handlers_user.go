package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/internal/auth"
	"github.com/protodeck/protodeck-backend/internal/auth/domain"
	"github.com/protodeck/protodeck-backend/internal/logging"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), uid)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
		return
	}
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("auth.get_profile", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// SyncUser is called by the frontend right after sign-in. The body is optional.
func (h *Handler) SyncUser(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	var body profileBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid JSON body"})
			return
		}
	}

	user, err := h.authService.SyncUser(c.Request.Context(), uid, auth.UserEmail(c), body.toRequest())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("auth.sync_user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to sync user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// UpdateProfile updates the user's profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	var body profileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), uid, body.toRequest())
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
		return
	}
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("auth.update_profile", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}
