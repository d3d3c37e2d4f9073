package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is the central marketplace entity. Rows are never physically
// removed: IsActive=false hides them from every default read path.
type Listing struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Title         string          `gorm:"not null;size:50;index:idx_listings_title" json:"title"`
	Description   string          `gorm:"size:500" json:"description,omitempty"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null;index:idx_listings_price" json:"price"`
	CategoryID    uint            `gorm:"not null;index:idx_listings_category_active,priority:1" json:"category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	UserID        uint            `gorm:"not null;index:idx_listings_user_active,priority:1" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	IsActive      bool            `gorm:"not null;default:true;index:idx_listings_category_active,priority:2;index:idx_listings_user_active,priority:2" json:"is_active"`
	ImageURL      string          `gorm:"size:255" json:"image_url,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;index:idx_listings_created_at" json:"created_at"`
	LastUpdatedAt time.Time       `gorm:"not null" json:"last_updated_at"`
	Version       int             `gorm:"not null;default:1" json:"version"`
}
