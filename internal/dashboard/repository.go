package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
)

// Repository runs the read-only aggregates. Every method is scoped to companyID and, where a
// scope is taken, to the caller's location.
type Repository interface {
	CountProducts(ctx context.Context, companyID int64) (int64, error)
	CountOrdersByType(ctx context.Context, companyID int64, scope auth.LocationFilter) (map[model.OrderType]int64, error)
	StockTotals(ctx context.Context, companyID int64, scope auth.LocationFilter) (totalStock, locations int64, err error)
	RecentOrders(ctx context.Context, companyID int64, scope auth.LocationFilter, limit int) ([]model.RecentOrder, error)
	CountStores(ctx context.Context, companyID int64) (int64, error)
	CountWarehouses(ctx context.Context, companyID int64) (int64, error)
	LowStock(ctx context.Context, companyID int64, scope auth.LocationFilter, limit int) ([]model.LowStockItem, error)
}
