// Package middleware holds the gin middleware shared by every route: request
// correlation, access logging, panic recovery, rate limiting and session
// based authentication.
package middleware

import "github.com/gin-gonic/gin"

const (
	// SessionUserKey is the session field holding the logged-in user id.
	SessionUserKey = "user_id"

	userIDKey    = "user_id"
	requestIDKey = "request_id"

	RequestIDHeader = "X-Request-Id"
)

// CurrentUserID returns the authenticated user id, or 0 for anonymous requests.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
