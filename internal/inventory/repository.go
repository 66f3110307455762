package inventory

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-erp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-erp-service/internal/model"
)

// ErrConcurrentInsert means another transaction created the inventory row between our
// lookup and our insert. The adjustment can be retried and will take the update path.
var ErrConcurrentInsert = errors.New("inventory row created concurrently")

type Repository interface {
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryView, error)

	// Adjust applies one adjustment and its audit row in a single transaction.
	Adjust(ctx context.Context, input *dto.AdjustInput) (*dto.AdjustResult, error)

	ListAudit(ctx context.Context, filters *dto.AuditFilters) ([]model.AuditLogView, int, error)
}
