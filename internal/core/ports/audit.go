package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// AuditRepository persists authentication audit entries (append-only).
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService records authentication activity. Implementations must be
// safe to call from request handlers without blocking on storage.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}
