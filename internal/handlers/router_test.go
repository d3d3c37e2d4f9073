package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"classifieds/internal/services"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRouter_Health(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := h.SetupRouter(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRouter_RateLimited(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := h.SetupRouter(services.NewIPRateLimiter(rate.Limit(0.001), 1, h.logger))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	h, _ := setupTestHandler(t)
	cl := newClient(t, h.SetupRouter(nil))

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/listings"},
		{http.MethodPut, "/api/listings/1"},
		{http.MethodDelete, "/api/listings/1"},
		{http.MethodGet, "/api/listings/1/history"},
		{http.MethodPost, "/api/categories"},
		{http.MethodPut, "/api/categories/1"},
		{http.MethodDelete, "/api/categories/1"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodDelete, "/api/users/me"},
	}
	for _, rt := range routes {
		w := cl.do(rt.method, rt.path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.method+" "+rt.path)
		assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
	}
}
