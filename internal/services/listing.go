package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"classifieds/internal/apperrors"
	"classifieds/internal/models"
	"classifieds/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	MinListingPrice = decimal.RequireFromString("0.01")
	MaxListingPrice = decimal.RequireFromString("999999.99")
)

const maxPriceScale = 4

// ListingInput is the editable part of a listing. ExpectedVersion is optional
// on update; when set, the write is rejected if the row moved past it.
type ListingInput struct {
	Title           string          `json:"title" validate:"required,min=3,max=50"`
	Description     string          `json:"description" validate:"max=500"`
	Price           decimal.Decimal `json:"price"`
	CategoryID      uint            `json:"category_id" validate:"required"`
	ImageURL        string          `json:"image_url" validate:"omitempty,max=255,http_url"`
	ExpectedVersion *int            `json:"expected_version,omitempty"`
}

func (in ListingInput) normalized() ListingInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}

// ListingPage is one page of search results plus the total match count.
type ListingPage struct {
	Items      []models.Listing `json:"items"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type ListingService struct {
	repos  *repository.Repositories
	audit  *AuditService
	logger *slog.Logger
	now    func() time.Time
}

func NewListingService(repos *repository.Repositories, audit *AuditService, logger *slog.Logger) *ListingService {
	return &ListingService{
		repos:  repos,
		audit:  audit,
		logger: logger.With("service", "listing"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List never rejects filter input; only storage faults are returned.
func (s *ListingService) List(ctx context.Context, q repository.ListingQuery) (*ListingPage, error) {
	q = q.Normalize()
	items, total, err := s.repos.Listings.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &ListingPage{
		Items:      items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *ListingService) Get(ctx context.Context, id uint) (*models.Listing, error) {
	return s.repos.Listings.FindByID(ctx, id)
}

func (s *ListingService) Recent(ctx context.Context, limit int) ([]models.Listing, error) {
	return s.repos.Listings.Recent(ctx, limit)
}

func (s *ListingService) Create(ctx context.Context, ownerID uint, in ListingInput) (*models.Listing, error) {
	if ownerID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	in = in.normalized()
	if err := s.validate(ctx, s.repos, in); err != nil {
		return nil, err
	}

	now := s.now()
	listing := &models.Listing{
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		CategoryID:    in.CategoryID,
		UserID:        ownerID,
		IsActive:      true,
		ImageURL:      in.ImageURL,
		CreatedAt:     now,
		LastUpdatedAt: now,
		Version:       1,
	}

	var created *models.Listing
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.Listings.Create(ctx, listing); err != nil {
			return err
		}
		if err := s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionCreate, models.EntityListing,
			uintPtr(listing.ID), uintPtr(ownerID), listingSnapshot(listing)); err != nil {
			return err
		}
		var err error
		created, err = tx.Listings.FindByID(ctx, listing.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Listing created", "listing_id", created.ID, "user_id", ownerID)
	return created, nil
}

// Update replaces the editable fields of an active listing owned by callerID.
func (s *ListingService) Update(ctx context.Context, id, callerID uint, in ListingInput) (*models.Listing, error) {
	if callerID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	in = in.normalized()

	var updated *models.Listing
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		existing, err := tx.Listings.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := Authorize(existing.UserID, callerID); err != nil {
			return err
		}
		if err := s.validate(ctx, tx, in); err != nil {
			return err
		}

		expected := existing.Version
		if in.ExpectedVersion != nil {
			expected = *in.ExpectedVersion
		}

		changes := listingDiff(existing, in)
		fields := map[string]interface{}{
			"title":           in.Title,
			"description":     in.Description,
			"price":           in.Price,
			"category_id":     in.CategoryID,
			"image_url":       in.ImageURL,
			"last_updated_at": s.now(),
		}
		if err := tx.Listings.UpdateVersioned(ctx, id, expected, fields); err != nil {
			return err
		}
		if err := s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionUpdate, models.EntityListing,
			uintPtr(id), uintPtr(callerID), changes); err != nil {
			return err
		}
		updated, err = tx.Listings.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Listing updated", "listing_id", id, "user_id", callerID, "version", updated.Version)
	return updated, nil
}

func (s *ListingService) SoftDelete(ctx context.Context, id, callerID uint) error {
	if callerID == 0 {
		return apperrors.ErrUnauthenticated
	}

	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		existing, err := tx.Listings.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := Authorize(existing.UserID, callerID); err != nil {
			return err
		}
		if err := tx.Listings.Deactivate(ctx, id, s.now()); err != nil {
			return err
		}
		return s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionDelete, models.EntityListing,
			uintPtr(id), uintPtr(callerID), map[string]any{
				"title":     existing.Title,
				"is_active": change{Old: true, New: false},
			})
	})
	if err != nil {
		return err
	}

	s.logger.Info("Listing deactivated", "listing_id", id, "user_id", callerID)
	return nil
}

// History returns the audit trail of a listing to its owner. It also serves
// listings that were already deactivated.
func (s *ListingService) History(ctx context.Context, id, callerID uint) ([]models.AuditLog, error) {
	if callerID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	listing, err := s.repos.Listings.FindByIDUnscoped(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(listing.UserID, callerID); err != nil {
		return nil, err
	}
	return s.audit.ListByEntity(ctx, models.EntityListing, id, 0)
}

func (s *ListingService) validate(ctx context.Context, repos *repository.Repositories, in ListingInput) error {
	verr := &apperrors.ValidationError{}
	switch {
	case in.Price.LessThan(MinListingPrice):
		verr.Add("price", "must be at least "+MinListingPrice.StringFixed(2))
	case in.Price.GreaterThan(MaxListingPrice):
		verr.Add("price", "must be at most "+MaxListingPrice.StringFixed(2))
	case !in.Price.Equal(in.Price.Truncate(maxPriceScale)):
		verr.Add("price", "may have at most 4 decimal places")
	}
	if in.ExpectedVersion != nil && *in.ExpectedVersion < 1 {
		verr.Add("expected_version", "must be a positive number")
	}

	if err := validateStruct(in, verr); err != nil {
		return err
	}

	exists, err := repos.Categories.Exists(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewValidationError("category_id", "category does not exist")
	}
	return nil
}

func listingSnapshot(l *models.Listing) map[string]any {
	return map[string]any{
		"title":       l.Title,
		"description": l.Description,
		"price":       l.Price.String(),
		"category_id": l.CategoryID,
		"image_url":   l.ImageURL,
	}
}

func listingDiff(old *models.Listing, in ListingInput) map[string]any {
	diff := map[string]any{}
	if old.Title != in.Title {
		diff["title"] = change{Old: old.Title, New: in.Title}
	}
	if old.Description != in.Description {
		diff["description"] = change{Old: old.Description, New: in.Description}
	}
	if !old.Price.Equal(in.Price) {
		diff["price"] = change{Old: old.Price.String(), New: in.Price.String()}
	}
	if old.CategoryID != in.CategoryID {
		diff["category_id"] = change{Old: old.CategoryID, New: in.CategoryID}
	}
	if old.ImageURL != in.ImageURL {
		diff["image_url"] = change{Old: old.ImageURL, New: in.ImageURL}
	}
	return diff
}
