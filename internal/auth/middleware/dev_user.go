package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/internal/auth"
)

// DevUser sets a firebase uid in context without verifying anything.
// - If X-User-Id is missing, it falls back to "demo-user".
// - Use this ONLY for development/testing (AUTH_DISABLED=true).
func DevUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = "demo-user"
		}

		c.Set(auth.CtxFirebaseUID, uid)
		if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
			c.Set(auth.CtxEmail, email)
		}

		c.Next()
	}
}
