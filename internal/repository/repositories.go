package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles the repositories that share one connection or one
// transaction.
type Repositories struct {
	db         *gorm.DB
	Users      UserRepository
	Categories CategoryRepository
	Listings   ListingRepository
	Audit      AuditRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Listings:   NewListingRepository(db),
		Audit:      NewAuditRepository(db),
	}
}

// WithTransaction runs fn against repositories bound to a single database
// transaction. Returning an error rolls back every write made through tx.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}
