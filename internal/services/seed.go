package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"classifieds/internal/apperrors"
	"classifieds/internal/models"
	"classifieds/internal/repository"
	"classifieds/pkg/utils"

	"github.com/shopspring/decimal"
)

type demoUser struct {
	username, email, password string
}

type demoListing struct {
	owner, category, title, description, price, image string
}

var (
	demoUsers = []demoUser{
		{"alice", "alice@example.com", "Alice123!"},
		{"bob", "bob@example.com", "Bob123!"},
	}
	demoCategories = []CategoryInput{
		{Name: "Electronics", Description: "Phones, laptops"},
		{Name: "Furniture", Description: "Chairs, tables"},
	}
	demoListings = []demoListing{
		{"alice", "Electronics", "iPhone 14", "Like new, 256GB, mint condition", "799.99", "https://example.com/iphone14.jpg"},
		{"alice", "Electronics", `MacBook Pro 14"`, "M2 Max, 16GB RAM, 512GB SSD, 2022 model", "1899.50", "https://example.com/macbook.jpg"},
		{"alice", "Electronics", "AirPods Pro", "Active noise cancellation, original box", "199.99", "https://example.com/airpods.jpg"},
		{"alice", "Furniture", "Leather Sofa", "Brown leather, 3-seater, very comfortable", "1200.00", "https://example.com/sofa.jpg"},
		{"alice", "Furniture", "Dining Table Set", "Wooden table with 6 chairs, perfect condition", "450.00", "https://example.com/dining.jpg"},
		{"bob", "Electronics", "Samsung Galaxy S23", "Phantom Black, 256GB, like new", "699.99", "https://example.com/galaxy.jpg"},
		{"bob", "Electronics", "iPad Air 5th Gen", "64GB, Space Gray, with Apple Pencil", "549.99", "https://example.com/ipad.jpg"},
		{"bob", "Electronics", "Gaming Laptop - ASUS", "RTX 4070, i9, 32GB RAM, 1TB SSD, excellent gaming performance", "1599.00", "https://example.com/asus.jpg"},
		{"bob", "Furniture", "Office Chair", "Ergonomic gaming chair, adjustable, black", "299.99", "https://example.com/chair.jpg"},
		{"bob", "Furniture", "Standing Desk", "Electric, oak finish, 48x24 inches", "599.00", "https://example.com/desk.jpg"},
		{"bob", "Furniture", "Bookshelf 5-Tier", "Walnut wood, sturdy, holds lots of books", "129.99", "https://example.com/bookshelf.jpg"},
	}
)

// SeedDemoData inserts the demo users, categories and listings. Each group is
// only inserted when its table is empty, so running it twice is harmless.
// Seed rows are written directly and carry no audit entries.
func SeedDemoData(ctx context.Context, repos *repository.Repositories, bcryptCost int, logger *slog.Logger) error {
	logger = logger.With("service", "seed")
	now := time.Now().UTC()

	return repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		users := map[string]uint{}
		for _, du := range demoUsers {
			existing, err := tx.Users.FindByUsername(ctx, du.username)
			if err == nil {
				users[du.username] = existing.ID
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			hash, err := utils.HashPasswordWithCost(du.password, bcryptCost)
			if err != nil {
				return err
			}
			u := &models.User{Username: du.username, Email: du.email, PasswordHash: hash, IsActive: true, CreatedAt: now}
			if err := tx.Users.Create(ctx, u); err != nil {
				return err
			}
			users[du.username] = u.ID
			logger.Info("Seeded user", "username", du.username)
		}

		categories := map[string]uint{}
		existingCategories, err := tx.Categories.ListWithCounts(ctx)
		if err != nil {
			return err
		}
		for _, c := range existingCategories {
			categories[c.Name] = c.ID
		}
		if len(existingCategories) == 0 {
			for _, dc := range demoCategories {
				c := &models.Category{Name: dc.Name, Description: dc.Description, CreatedAt: now}
				if err := tx.Categories.Create(ctx, c); err != nil {
					return err
				}
				categories[c.Name] = c.ID
			}
			logger.Info("Seeded categories", "count", len(demoCategories))
		}

		active, err := tx.Listings.CountActive(ctx)
		if err != nil {
			return err
		}
		if active > 0 {
			return nil
		}
		for i, dl := range demoListings {
			categoryID, ok := categories[dl.category]
			if !ok {
				continue
			}
			created := now.Add(time.Duration(i-len(demoListings)) * time.Minute)
			l := &models.Listing{
				Title:         dl.title,
				Description:   dl.description,
				Price:         decimal.RequireFromString(dl.price),
				CategoryID:    categoryID,
				UserID:        users[dl.owner],
				IsActive:      true,
				ImageURL:      dl.image,
				CreatedAt:     created,
				LastUpdatedAt: created,
				Version:       1,
			}
			if err := tx.Listings.Create(ctx, l); err != nil {
				return err
			}
		}
		logger.Info("Seeded listings", "count", len(demoListings))
		return nil
	})
}
