package ports

import (
	"context"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// AuditRepository persists authentication events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService records authentication events.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}
