package location

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/location/dto"
	"github.com/fekuna/omnipos-erp-service/internal/model"
)

var ErrDuplicateCode = errors.New("location code already exists")

type UseCase interface {
	ListStores(ctx context.Context, id *auth.Identity) ([]model.Store, error)
	ListWarehouses(ctx context.Context, id *auth.Identity) ([]model.Warehouse, error)
	CreateStore(ctx context.Context, id *auth.Identity, input *dto.CreateStoreRequest) (*model.Store, error)
	CreateWarehouse(ctx context.Context, id *auth.Identity, input *dto.CreateWarehouseRequest) (*model.Warehouse, error)

	// EnsureInTenant returns a not found error unless every non-nil id names an active
	// location of companyID.
	EnsureInTenant(ctx context.Context, companyID int64, storeID, warehouseID *int64) error
}
