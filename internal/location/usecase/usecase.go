package usecase

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/location"
	"github.com/fekuna/omnipos-erp-service/internal/location/dto"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"go.uber.org/zap"
)

type locationUseCase struct {
	repo   location.Repository
	logger logger.ZapLogger
}

func NewLocationUseCase(repo location.Repository, log logger.ZapLogger) location.UseCase {
	return &locationUseCase{
		repo:   repo,
		logger: log,
	}
}

// Stores are filtered by the caller's scope: a store user only sees its own store.
func (uc *locationUseCase) ListStores(ctx context.Context, id *auth.Identity) ([]model.Store, error) {
	scope := id.Scope(auth.LocationFilter{})
	if scope.Denied() {
		return []model.Store{}, nil
	}
	stores, err := uc.repo.ListStores(ctx, &dto.LocationFilters{CompanyID: id.CompanyID, ID: scope.StoreID})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch stores")
	}
	return stores, nil
}

func (uc *locationUseCase) ListWarehouses(ctx context.Context, id *auth.Identity) ([]model.Warehouse, error) {
	scope := id.Scope(auth.LocationFilter{})
	if scope.Denied() {
		return []model.Warehouse{}, nil
	}
	warehouses, err := uc.repo.ListWarehouses(ctx, &dto.LocationFilters{CompanyID: id.CompanyID, ID: scope.WarehouseID})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch warehouses")
	}
	return warehouses, nil
}

func (uc *locationUseCase) CreateStore(ctx context.Context, id *auth.Identity, input *dto.CreateStoreRequest) (*model.Store, error) {
	s := &model.Store{
		CompanyID:   id.CompanyID,
		StoreCode:   input.StoreCode,
		Name:        input.Name,
		Region:      model.StringPtr(input.Region),
		State:       model.StringPtr(input.State),
		MainContact: model.StringPtr(input.MainContact),
		Phone:       model.StringPtr(input.Phone),
		Email:       model.StringPtr(input.Email),
		Address:     model.StringPtr(input.Address),
	}

	if err := uc.repo.CreateStore(ctx, s); err != nil {
		if errors.Is(err, location.ErrDuplicateCode) {
			return nil, apperror.Conflict("Location with this code already exists").WithID("DuplicateLocationCode")
		}
		return nil, apperror.Internal(err, "Failed to create store")
	}

	logger.FromContext(ctx, uc.logger).Info("store created", zap.Int64("store_id", s.ID), zap.String("code", s.StoreCode))
	return s, nil
}

func (uc *locationUseCase) CreateWarehouse(ctx context.Context, id *auth.Identity, input *dto.CreateWarehouseRequest) (*model.Warehouse, error) {
	w := &model.Warehouse{
		CompanyID:     id.CompanyID,
		WarehouseCode: input.WarehouseCode,
		Name:          input.Name,
		Location:      model.StringPtr(input.Location),
		ManagerName:   model.StringPtr(input.ManagerName),
		Phone:         model.StringPtr(input.Phone),
		Email:         model.StringPtr(input.Email),
	}

	if err := uc.repo.CreateWarehouse(ctx, w); err != nil {
		if errors.Is(err, location.ErrDuplicateCode) {
			return nil, apperror.Conflict("Location with this code already exists").WithID("DuplicateLocationCode")
		}
		return nil, apperror.Internal(err, "Failed to create warehouse")
	}

	logger.FromContext(ctx, uc.logger).Info("warehouse created", zap.Int64("warehouse_id", w.ID), zap.String("code", w.WarehouseCode))
	return w, nil
}

func (uc *locationUseCase) EnsureInTenant(ctx context.Context, companyID int64, storeID, warehouseID *int64) error {
	if storeID != nil {
		s, err := uc.repo.FindStore(ctx, companyID, *storeID)
		if err != nil {
			return apperror.Internal(err, "Failed to look up store")
		}
		if s == nil {
			return apperror.NotFound("Store not found").WithID("StoreNotFound")
		}
	}
	if warehouseID != nil {
		w, err := uc.repo.FindWarehouse(ctx, companyID, *warehouseID)
		if err != nil {
			return apperror.Internal(err, "Failed to look up warehouse")
		}
		if w == nil {
			return apperror.NotFound("Warehouse not found").WithID("WarehouseNotFound")
		}
	}
	return nil
}
