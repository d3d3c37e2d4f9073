package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionLogin    = "LOGIN"
	ActionRegister = "REGISTER"
)

const (
	EntityListing  = "Listing"
	EntityUser     = "User"
	EntityCategory = "Category"
)

// AuditLog is append-only. UserID and EntityID are nullable so system actions
// and entries about since-deactivated users keep their history.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Action     string         `gorm:"size:50;not null" json:"action"`
	EntityName string         `gorm:"size:100;not null;index:idx_audit_logs_entity,priority:1" json:"entity_name"`
	EntityID   *uint          `gorm:"index:idx_audit_logs_entity,priority:2" json:"entity_id"`
	UserID     *uint          `gorm:"index" json:"user_id"`
	Changes    datatypes.JSON `json:"changes,omitempty"`
	Details    string         `gorm:"type:text" json:"details,omitempty"`
	IPAddress  string         `gorm:"size:45" json:"ip_address,omitempty"`
	Timestamp  time.Time      `gorm:"not null;index:idx_audit_logs_timestamp,sort:desc" json:"timestamp"`
}

// BeforeCreate stores a JSON null instead of SQL NULL when there is no
// payload; datatypes.JSON cannot scan a NULL column back.
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if len(a.Changes) == 0 {
		a.Changes = datatypes.JSON("null")
	}
	return nil
}
