package location

import (
	"context"

	"github.com/fekuna/omnipos-erp-service/internal/location/dto"
	"github.com/fekuna/omnipos-erp-service/internal/model"
)

type Repository interface {
	ListStores(ctx context.Context, filters *dto.LocationFilters) ([]model.Store, error)
	ListWarehouses(ctx context.Context, filters *dto.LocationFilters) ([]model.Warehouse, error)
	FindStore(ctx context.Context, companyID, id int64) (*model.Store, error)
	FindWarehouse(ctx context.Context, companyID, id int64) (*model.Warehouse, error)
	CreateStore(ctx context.Context, store *model.Store) error
	CreateWarehouse(ctx context.Context, warehouse *model.Warehouse) error
}
