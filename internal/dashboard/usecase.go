package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
)

type UseCase interface {
	Stats(ctx context.Context, id *auth.Identity) (*model.DashboardStats, error)
	LowStock(ctx context.Context, id *auth.Identity) ([]model.LowStockItem, error)
}
