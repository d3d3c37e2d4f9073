package repository

import (
	"context"
	"testing"
	"time"

	"classifieds/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedListing(t *testing.T, db *gorm.DB, title, price string, categoryID, userID uint, createdAt time.Time) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		Title:         title,
		Price:         decimal.RequireFromString(price),
		CategoryID:    categoryID,
		UserID:        userID,
		IsActive:      true,
		CreatedAt:     createdAt,
		LastUpdatedAt: createdAt,
		Version:       1,
	}
	require.NoError(t, NewListingRepository(db).Create(context.Background(), listing))
	return listing
}
