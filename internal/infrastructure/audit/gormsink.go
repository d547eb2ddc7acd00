// Package audit delivers audit events to the audit_logs table and, when
// configured, to a RabbitMQ topic exchange.
package audit

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domainaudit "github.com/parkwarden/parkwarden/internal/domain/audit"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
)

var _ domainaudit.Sink = (*GormSink)(nil)

// GormSink writes events to audit_logs outside any request transaction.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Record(ctx context.Context, event domainaudit.Event) error {
	model := &models.AuditLogModel{
		EventID:    event.ID,
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		ActorID:    event.ActorID,
		Detail:     datatypes.JSONMap(event.Detail),
		OccurredAt: event.OccurredAt,
	}

	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
