package ports

import (
	"context"

	"github.com/orderly/orders-api/internal/core/domain"
)

// AuditRepository persists request records to the audit trail.
type AuditRepository interface {
	InsertRequest(ctx context.Context, rec *domain.RequestRecord) error
}
