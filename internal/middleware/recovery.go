package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"classifieds/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a logged 500 with the standard error body.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("error", err),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("request_id", RequestIDFrom(c)),
				)
				httpErr := apperrors.NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
		}()
		c.Next()
	}
}
