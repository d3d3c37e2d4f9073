package middleware

import (
	"net"
	"strings"

	"classifieds/internal/services"

	"github.com/gin-gonic/gin"
)

// ClientIP stores the caller's address in the request context, where audit
// entries pick it up.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := clientIP(c)
		c.Request = c.Request.WithContext(services.WithClientIP(c.Request.Context(), ip))
		c.Next()
	}
}

// clientIP prefers the Cloudflare header, then the first X-Forwarded-For hop.
func clientIP(c *gin.Context) string {
	ip := c.GetHeader("CF-Connecting-IP")
	if ip == "" {
		if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
			ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	if ip == "" {
		return c.ClientIP()
	}
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	return ip
}
