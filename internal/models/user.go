package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null;size:100" json:"email"`
	PasswordHash string     `gorm:"not null;size:255" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	Listings     []Listing  `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"listings,omitempty"`
}

// PublicUser is what other visitors may see of an account.
type PublicUser struct {
	ID       uint      `json:"id"`
	Username string    `json:"username"`
	Listings []Listing `json:"listings,omitempty"`
}

// MarshalJSON always renders the public view, so a preloaded owner never
// leaks contact details. The account holder's own view is built explicitly.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(PublicUser{ID: u.ID, Username: u.Username, Listings: u.Listings})
}
