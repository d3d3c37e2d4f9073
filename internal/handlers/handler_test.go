package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"classifieds/internal/config"
	"classifieds/internal/repository"
	"classifieds/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repository.AutoMigrate(db))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		AppEnv:            "local",
		SessionSecret:     "test-session-secret-0123456789abcdef",
		SessionMaxAgeDays: 7,
		BcryptCost:        bcrypt.MinCost,
	}

	repos := repository.NewRepositories(db)
	audit := services.NewAuditService(repos.Audit, log)
	h := NewHandler(
		cfg,
		log,
		services.NewListingService(repos, audit, log),
		services.NewUserService(repos, audit, log, cfg.BcryptCost),
		services.NewCategoryService(repos, audit, log),
		services.NewHomeService(repos),
	)
	return h, db
}

// client replays the session cookie like a browser would.
type client struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, router http.Handler) *client {
	return &client{t: t, router: router, cookies: map[string]*http.Cookie{}}
}

func (cl *client) do(method, path string, body any) *httptest.ResponseRecorder {
	cl.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(cl.t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(cl.cookies, ck.Name)
			continue
		}
		cl.cookies[ck.Name] = ck
	}
	return w
}

func (cl *client) register(username string) uint {
	cl.t.Helper()
	w := cl.do(http.MethodPost, "/api/register", map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	})
	require.Equal(cl.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(cl.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
