package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"classifieds/internal/models"
	"classifieds/internal/repository"

	"gorm.io/datatypes"
)

type clientIPKey struct{}

// WithClientIP attaches the caller's address to ctx for audit entries.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFrom returns the address set by WithClientIP, or "".
func ClientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// AuditService writes audit entries synchronously. Callers that mutate data
// bind it to their transaction with WithRepository so the entry commits or
// rolls back together with the change it describes.
type AuditService struct {
	repo   repository.AuditRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditService(repo repository.AuditRepository, logger *slog.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger.With("service", "audit"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithRepository returns a copy writing through repo.
func (s *AuditService) WithRepository(repo repository.AuditRepository) *AuditService {
	clone := *s
	clone.repo = repo
	return &clone
}

// LogAction persists one entry. A changes payload that cannot be encoded does
// not block the entry: it is stored with a null payload and a note in Details.
func (s *AuditService) LogAction(ctx context.Context, action, entityName string, entityID, userID *uint, changes any) error {
	entry := models.AuditLog{
		Action:     action,
		EntityName: entityName,
		EntityID:   entityID,
		UserID:     userID,
		IPAddress:  ClientIPFrom(ctx),
		Timestamp:  s.now(),
	}

	if changes != nil {
		payload, err := json.Marshal(changes)
		if err != nil {
			s.logger.Warn("Audit changes could not be serialized",
				"action", action, "entity", entityName, "error", err)
			entry.Details = fmt.Sprintf("changes could not be serialized: %v", err)
		} else {
			entry.Changes = datatypes.JSON(payload)
		}
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

func (s *AuditService) ListByEntity(ctx context.Context, entityName string, entityID uint, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByEntity(ctx, entityName, entityID, limit)
}

func (s *AuditService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// change is one field's before/after pair in an UPDATE payload.
type change struct {
	Old any `json:"old"`
	New any `json:"new"`
}
