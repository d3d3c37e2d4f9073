package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"classifieds/internal/apperrors"
	"classifieds/internal/models"
	"classifieds/internal/repository"
)

type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=255"`
}

type CategoryService struct {
	repos  *repository.Repositories
	audit  *AuditService
	logger *slog.Logger
	now    func() time.Time
}

func NewCategoryService(repos *repository.Repositories, audit *AuditService, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repos:  repos,
		audit:  audit,
		logger: logger.With("service", "category"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repos.Categories.ListWithCounts(ctx)
}

// Get returns the category with its active listings.
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	return s.repos.Categories.FindByIDWithListings(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, actorID uint, in CategoryInput) (*models.Category, error) {
	if actorID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	in = normalizeCategory(in)
	if err := validateStruct(in, nil); err != nil {
		return nil, err
	}

	category := &models.Category{Name: in.Name, Description: in.Description, CreatedAt: s.now()}
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := ensureNameFree(ctx, tx, in.Name, 0); err != nil {
			return err
		}
		if err := tx.Categories.Create(ctx, category); err != nil {
			return err
		}
		return s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionCreate, models.EntityCategory,
			uintPtr(category.ID), uintPtr(actorID), map[string]any{"name": category.Name, "description": category.Description})
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id, actorID uint, in CategoryInput) (*models.Category, error) {
	if actorID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	in = normalizeCategory(in)
	if err := validateStruct(in, nil); err != nil {
		return nil, err
	}

	var category *models.Category
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		existing, err := tx.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureNameFree(ctx, tx, in.Name, id); err != nil {
			return err
		}

		diff := map[string]any{}
		if existing.Name != in.Name {
			diff["name"] = change{Old: existing.Name, New: in.Name}
		}
		if existing.Description != in.Description {
			diff["description"] = change{Old: existing.Description, New: in.Description}
		}

		existing.Name = in.Name
		existing.Description = in.Description
		if err := tx.Categories.Update(ctx, existing); err != nil {
			return err
		}
		category = existing
		return s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionUpdate, models.EntityCategory,
			uintPtr(id), uintPtr(actorID), diff)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category that no listing references, active or not.
func (s *CategoryService) Delete(ctx context.Context, id, actorID uint) error {
	if actorID == 0 {
		return apperrors.ErrUnauthenticated
	}
	return s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		existing, err := tx.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		inUse, err := tx.Listings.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return apperrors.ErrCategoryInUse
		}
		if err := tx.Categories.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionDelete, models.EntityCategory,
			uintPtr(id), uintPtr(actorID), map[string]any{"name": existing.Name})
	})
}

func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	return s.repos.Categories.Count(ctx)
}

func normalizeCategory(in CategoryInput) CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func ensureNameFree(ctx context.Context, tx *repository.Repositories, name string, excludeID uint) error {
	taken, err := tx.Categories.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("category %q: %w", name, apperrors.ErrAlreadyExists)
	}
	return nil
}
