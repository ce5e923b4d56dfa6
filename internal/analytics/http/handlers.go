package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/internal/analytics/domain"
	"github.com/protodeck/protodeck-backend/internal/logging"
)

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	default:
		logging.FromContext(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}

// viewerIP prefers the first X-Forwarded-For hop, which is the browser
// when we sit behind a proxy.
func viewerIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}

func (h *Handler) trackView(c *gin.Context) {
	var req trackViewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	counted, err := h.svc.TrackView(c.Request.Context(), domain.View{
		ProjectID:   req.ProjectID,
		ProjectSlug: req.ProjectSlug,
		UserAgent:   c.Request.UserAgent(),
		Referer:     c.Request.Referer(),
		IPAddress:   viewerIP(c),
	})
	if err != nil {
		writeError(c, "analytics.track_view", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "counted": counted})
}

func (h *Handler) report(c *gin.Context) {
	days := domain.DefaultDays
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "days must be a positive integer"})
			return
		}
		days = n
	}

	report, err := h.svc.Report(c.Request.Context(), days, c.Query("client_label"))
	if err != nil {
		writeError(c, "analytics.report", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": report.Projects, "date_range": report.DateRange})
}
