package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"classifieds/internal/models"
	"classifieds/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db         *gorm.DB
	repos      *repository.Repositories
	audit      *AuditService
	listings   *ListingService
	users      *UserService
	categories *CategoryService
	home       *HomeService
	logger     *slog.Logger
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := repository.NewRepositories(db)
	audit := NewAuditService(repos.Audit, log)
	return &testEnv{
		db:         db,
		repos:      repos,
		audit:      audit,
		listings:   NewListingService(repos, audit, log),
		users:      NewUserService(repos, audit, log, bcrypt.MinCost),
		categories: NewCategoryService(repos, audit, log),
		home:       NewHomeService(repos),
		logger:     log,
	}
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) createListing(t *testing.T, ownerID, categoryID uint, title, price string) *models.Listing {
	t.Helper()
	l, err := e.listings.Create(context.Background(), ownerID, ListingInput{
		Title:      title,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return l
}

func (e *testEnv) auditCount(t *testing.T, action, entity string, entityID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.AuditLog{}).
		Where("action = ? AND entity_name = ? AND entity_id = ?", action, entity, entityID).
		Count(&n).Error)
	return n
}

func (e *testEnv) totalAudit(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.AuditLog{}).Count(&n).Error)
	return n
}
