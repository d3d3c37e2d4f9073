package repository

import (
	"context"

	"classifieds/internal/models"

	"gorm.io/gorm"
)

// AuditRepository is append-only: there is deliberately no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByEntity(ctx context.Context, entityName string, entityID uint, limit int) ([]models.AuditLog, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, "audit_log")
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityName string, entityID uint, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_name = ? AND entity_id = ?", entityName, entityID).
		Order("audit_logs.timestamp DESC").Order("audit_logs.id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, translate(err, "audit_logs by entity")
	}
	return entries, nil
}

func (r *auditRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("audit_logs.timestamp DESC").Order("audit_logs.id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, translate(err, "audit_logs by user")
	}
	return entries, nil
}
