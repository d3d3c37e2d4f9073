package utils

import (
	"github.com/google/uuid"
)

// NewRequestID returns a random UUID used to correlate log lines of one request.
func NewRequestID() string {
	return uuid.NewString()
}

// ValidRequestID reports whether an inbound X-Request-Id can be reused as is.
func ValidRequestID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
