package inventory

import (
	"context"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-erp-service/internal/model"
)

type UseCase interface {
	ListInventory(ctx context.Context, id *auth.Identity, query *dto.ListInventoryQuery) ([]model.InventoryView, error)
	AdjustInventory(ctx context.Context, id *auth.Identity, req *dto.AdjustInventoryRequest) (*model.Inventory, error)
	ListAudit(ctx context.Context, id *auth.Identity, query *dto.ListAuditQuery) (*dto.AuditPage, error)
}
