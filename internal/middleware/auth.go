package middleware

import (
	"context"
	"errors"
	"log/slog"

	"classifieds/internal/apperrors"
	"classifieds/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// UserResolver maps a session's user id to a live account.
type UserResolver interface {
	ActiveUser(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser resolves the session user on every request. Sessions that point at
// a missing or deactivated account are cleared so the request is anonymous.
func LoadUser(users UserResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(SessionUserKey).(uint)
		if !ok || id == 0 {
			c.Next()
			return
		}

		user, err := users.ActiveUser(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(userIDKey, user.ID)
		case errors.Is(err, apperrors.ErrUnauthenticated):
			session.Clear()
			if err := session.Save(); err != nil {
				logger.Warn("Failed to clear stale session", "error", err, "request_id", RequestIDFrom(c))
			}
		default:
			logger.Error("Failed to resolve session user", "error", err, "request_id", RequestIDFrom(c))
		}
		c.Next()
	}
}

// AuthRequired aborts anonymous requests with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == 0 {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			return
		}
		c.Next()
	}
}
