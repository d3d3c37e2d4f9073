package models

import (
	"time"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	Listings    []Listing `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"listings,omitempty"`

	// ListingCount is filled by aggregate queries and never persisted.
	ListingCount int64 `gorm:"-:migration;->" json:"listing_count"`
}
