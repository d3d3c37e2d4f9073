package repository

import (
	"context"
	"math"
	"strings"
	"time"

	"classifieds/internal/apperrors"
	"classifieds/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultPageSize = 10

type ListingSort string

const (
	SortNewest    ListingSort = "newest"
	SortPriceAsc  ListingSort = "price_asc"
	SortPriceDesc ListingSort = "price_desc"
)

// ListingQuery describes one page of the public listing search. Zero values
// mean "no filter".
type ListingQuery struct {
	Title      string
	CategoryID int
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       ListingSort
	Page       int
	PageSize   int
}

// Normalize clamps the page to [1, MaxInt/PageSize+1], fixes the page size and resolves unknown
// sort keys to newest-first.
func (q ListingQuery) Normalize() ListingQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	// Keeps Offset from overflowing; such a page is empty anyway.
	if maxPage := math.MaxInt/q.PageSize + 1; q.Page > maxPage {
		q.Page = maxPage
	}
	switch q.Sort {
	case SortPriceAsc, SortPriceDesc:
	default:
		q.Sort = SortNewest
	}
	q.Title = strings.TrimSpace(q.Title)
	return q
}

func (q ListingQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ActiveListings is the soft-delete visibility filter. Every default listing
// read composes it; FindByIDUnscoped is the only path that does not.
func ActiveListings(db *gorm.DB) *gorm.DB {
	return db.Where("listings.is_active = ?", true)
}

func listingFilters(q ListingQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Title != "" {
			db = db.Where("LOWER(listings.title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(q.Title))+"%")
		}
		if q.CategoryID > 0 {
			db = db.Where("listings.category_id = ?", q.CategoryID)
		}
		if q.MinPrice != nil {
			db = db.Where("listings.price >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			db = db.Where("listings.price <= ?", *q.MaxPrice)
		}
		return db
	}
}

func listingOrder(sort ListingSort) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch sort {
		case SortPriceAsc:
			return db.Order("listings.price ASC").Order("listings.id ASC")
		case SortPriceDesc:
			return db.Order("listings.price DESC").Order("listings.id DESC")
		default:
			return db.Order("listings.created_at DESC").Order("listings.id DESC")
		}
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListingRepository defines listing persistence operations.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	FindByID(ctx context.Context, id uint) (*models.Listing, error)
	FindByIDUnscoped(ctx context.Context, id uint) (*models.Listing, error)
	Search(ctx context.Context, q ListingQuery) ([]models.Listing, int64, error)
	Recent(ctx context.Context, limit int) ([]models.Listing, error)
	CountActive(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	UpdateVersioned(ctx context.Context, id uint, expectedVersion int, fields map[string]interface{}) error
	Deactivate(ctx context.Context, id uint, at time.Time) error
	DeactivateByUser(ctx context.Context, userID uint, at time.Time) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return translate(r.db.WithContext(ctx).Omit("Category", "User").Create(listing).Error, "listing")
}

// FindByID returns an active listing with its category and owner.
func (r *listingRepository) FindByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Scopes(ActiveListings).
		Preload("Category").
		Preload("User").
		Where("listings.id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, translate(err, "listing")
	}
	return &listing, nil
}

// FindByIDUnscoped bypasses the visibility filter. Reserved for
// administrative paths such as a listing's audit history.
func (r *listingRepository) FindByIDUnscoped(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("User").
		Where("listings.id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, translate(err, "listing")
	}
	return &listing, nil
}

// Search applies filters, counts all matches, then returns one sorted page.
func (r *listingRepository) Search(ctx context.Context, q ListingQuery) ([]models.Listing, int64, error) {
	q = q.Normalize()

	filtered := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Listing{}).
			Scopes(ActiveListings, listingFilters(q))
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, translate(err, "listing count")
	}

	listings := make([]models.Listing, 0, q.PageSize)
	if total == 0 {
		return listings, 0, nil
	}

	err := filtered().
		Scopes(listingOrder(q.Sort)).
		Preload("Category").
		Preload("User").
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&listings).Error
	if err != nil {
		return nil, 0, translate(err, "listing search")
	}
	return listings, total, nil
}

func (r *listingRepository) Recent(ctx context.Context, limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.WithContext(ctx).
		Scopes(ActiveListings, listingOrder(SortNewest)).
		Preload("Category").
		Preload("User").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, translate(err, "recent listings")
	}
	return listings, nil
}

func (r *listingRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Listing{}).Scopes(ActiveListings).Count(&count).Error
	return count, translate(err, "listing count")
}

// CountByCategory counts every row referencing the category, active or not,
// because inactive rows still hold the foreign key.
func (r *listingRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Listing{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, translate(err, "listing count")
}

// UpdateVersioned writes fields only if the active row still carries
// expectedVersion, and bumps the version. No matching row means someone else
// changed or removed it since it was loaded.
func (r *listingRepository) UpdateVersioned(ctx context.Context, id uint, expectedVersion int, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["version"] = gorm.Expr("version + ?", 1)

	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Scopes(ActiveListings).
		Where("listings.id = ? AND listings.version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error, "listing update")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrencyConflict
	}
	return nil
}

func (r *listingRepository) Deactivate(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Scopes(ActiveListings).
		Where("listings.id = ?", id).
		Updates(deactivation(at))
	if res.Error != nil {
		return translate(res.Error, "listing deactivate")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "listing")
	}
	return nil
}

func (r *listingRepository) DeactivateByUser(ctx context.Context, userID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Scopes(ActiveListings).
		Where("listings.user_id = ?", userID).
		Updates(deactivation(at))
	if res.Error != nil {
		return 0, translate(res.Error, "listing deactivate")
	}
	return res.RowsAffected, nil
}

func deactivation(at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"is_active":       false,
		"last_updated_at": at,
		"version":         gorm.Expr("version + ?", 1),
	}
}
