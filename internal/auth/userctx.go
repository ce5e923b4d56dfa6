package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/internal/auth/domain"
	"github.com/protodeck/protodeck-backend/internal/logging"
)

// UserEnsurer creates the users row for a Firebase identity on first sight.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, in domain.EnsureUserInput) (string, error)
}

// WithUser must run after the token middleware. It upserts the caller into
// the users table and stores the row id under CtxUserDBID.
func WithUser(users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuid := UserFirebaseUID(c)
		if fuid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			return
		}

		uid, err := users.EnsureUser(c.Request.Context(), domain.EnsureUserInput{
			FirebaseUID: fuid,
			Email:       UserEmail(c),
		})
		if err != nil {
			logging.FromContext(c.Request.Context()).Error("auth.ensure_user", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load user"})
			return
		}

		c.Set(CtxUserDBID, uid)
		c.Next()
	}
}
