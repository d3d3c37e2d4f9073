package services

import (
	"context"

	"classifieds/internal/models"
	"classifieds/internal/repository"
)

const recentListingCount = 6

// HomeSummary is the landing page payload.
type HomeSummary struct {
	TotalListings   int64             `json:"total_listings"`
	TotalCategories int64             `json:"total_categories"`
	TotalUsers      int64             `json:"total_users"`
	RecentListings  []models.Listing  `json:"recent_listings"`
	Categories      []models.Category `json:"categories"`
}

type HomeService struct {
	repos *repository.Repositories
}

func NewHomeService(repos *repository.Repositories) *HomeService {
	return &HomeService{repos: repos}
}

func (s *HomeService) Summary(ctx context.Context) (*HomeSummary, error) {
	var (
		summary HomeSummary
		err     error
	)
	if summary.TotalListings, err = s.repos.Listings.CountActive(ctx); err != nil {
		return nil, err
	}
	if summary.TotalCategories, err = s.repos.Categories.Count(ctx); err != nil {
		return nil, err
	}
	if summary.TotalUsers, err = s.repos.Users.Count(ctx); err != nil {
		return nil, err
	}
	if summary.RecentListings, err = s.repos.Listings.Recent(ctx, recentListingCount); err != nil {
		return nil, err
	}
	if summary.Categories, err = s.repos.Categories.ListWithCounts(ctx); err != nil {
		return nil, err
	}
	return &summary, nil
}
