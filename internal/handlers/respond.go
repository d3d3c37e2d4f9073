package handlers

import (
	"net/http"
	"strconv"

	"classifieds/internal/apperrors"
	"classifieds/internal/middleware"

	"github.com/gin-gonic/gin"
)

// respondError writes the mapped error body. Unmapped errors are logged with
// their detail; the client only sees a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", middleware.RequestIDFrom(c),
		)
	}
	c.AbortWithStatusJSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bindJSON decodes the body into dst, answering 400 on malformed input.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, apperrors.NewValidationError("body", "malformed JSON: "+err.Error()))
		return false
	}
	return true
}

// pathID parses :id. Anything that is not a positive integer cannot name a
// row, so it is reported as not found.
func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrNotFound
	}
	return uint(id), nil
}
