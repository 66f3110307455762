package usecase

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/cachekey"
	"github.com/fekuna/omnipos-erp-service/internal/event"
	"github.com/fekuna/omnipos-erp-service/internal/inventory"
	"github.com/fekuna/omnipos-erp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/cache"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/metrics"
	"github.com/fekuna/omnipos-erp-service/pkg/pagination"
	"go.uber.org/zap"
)

// ProductVerifier is satisfied by product.UseCase.
type ProductVerifier interface {
	EnsureInTenant(ctx context.Context, companyID int64, productIDs ...int64) error
}

// LocationVerifier is satisfied by location.UseCase.
type LocationVerifier interface {
	EnsureInTenant(ctx context.Context, companyID int64, storeID, warehouseID *int64) error
}

type Options struct {
	Cache     *cache.RedisClient
	Publisher event.Publisher
	Metrics   *metrics.Metrics
}

type inventoryUseCase struct {
	repo      inventory.Repository
	products  ProductVerifier
	locations LocationVerifier
	cache     *cache.RedisClient
	publisher event.Publisher
	metrics   *metrics.Metrics
	logger    logger.ZapLogger
}

func NewInventoryUseCase(
	repo inventory.Repository,
	products ProductVerifier,
	locations LocationVerifier,
	opts Options,
	log logger.ZapLogger,
) inventory.UseCase {
	uc := &inventoryUseCase{
		repo:      repo,
		products:  products,
		locations: locations,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		logger:    log,
	}
	if uc.publisher == nil {
		uc.publisher = event.NopPublisher{}
	}
	return uc
}

func (uc *inventoryUseCase) ListInventory(ctx context.Context, id *auth.Identity, q *dto.ListInventoryQuery) ([]model.InventoryView, error) {
	scope := id.Scope(auth.LocationFilter{StoreID: q.StoreID, WarehouseID: q.WarehouseID})
	items, err := uc.repo.FindAll(ctx, &dto.InventoryFilters{
		CompanyID: id.CompanyID,
		Scope:     scope,
		ProductID: q.ProductID,
		LowStock:  q.LowStock,
	})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch inventory")
	}
	return items, nil
}

// AdjustInventory runs every check before the transaction opens. A first insert that races
// another one is retried once and then takes the update path.
func (uc *inventoryUseCase) AdjustInventory(ctx context.Context, id *auth.Identity, req *dto.AdjustInventoryRequest) (*model.Inventory, error) {
	if (req.StoreID == nil) == (req.WarehouseID == nil) {
		return nil, apperror.Validation("Must specify either storeId or warehouseId, not both").WithID("LocationXOR")
	}
	if err := id.AuthorizeAdjustment(req.StoreID, req.WarehouseID); err != nil {
		return nil, err
	}
	if err := uc.products.EnsureInTenant(ctx, id.CompanyID, req.ProductID); err != nil {
		return nil, err
	}
	if err := uc.locations.EnsureInTenant(ctx, id.CompanyID, req.StoreID, req.WarehouseID); err != nil {
		return nil, err
	}

	input := &dto.AdjustInput{
		CompanyID:   id.CompanyID,
		UserID:      id.UserID,
		ProductID:   req.ProductID,
		StoreID:     req.StoreID,
		WarehouseID: req.WarehouseID,
		Delta:       *req.Quantity,
		Reason:      req.Reason,
	}
	log := logger.FromContext(ctx, uc.logger)

	res, err := uc.repo.Adjust(ctx, input)
	if errors.Is(err, inventory.ErrConcurrentInsert) {
		log.Info("inventory row created concurrently, retrying adjustment", zap.Int64("product_id", req.ProductID))
		res, err = uc.repo.Adjust(ctx, input)
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to adjust inventory").WithID("AdjustInventoryFailed")
	}

	uc.metrics.InventoryAdjusted(res.Path)
	log.Info("inventory adjusted",
		zap.Int64("inventory_id", res.Inventory.ID),
		zap.Int64("product_id", res.Inventory.ProductID),
		zap.Int64("delta", input.Delta),
		zap.Int64("quantity", res.Inventory.Quantity),
		zap.String("path", res.Path),
	)

	go uc.invalidateCaches(context.WithoutCancel(ctx), id.CompanyID)
	uc.publisher.Publish(ctx, id.CompanyID, event.TypeInventoryAdjusted, dto.AdjustedEvent{
		Inventory: res.Inventory,
		Delta:     input.Delta,
		Reason:    input.Reason,
		UserID:    id.UserID,
	})

	return &res.Inventory, nil
}

// Stock totals show up in product lists and dashboard stats.
func (uc *inventoryUseCase) invalidateCaches(ctx context.Context, companyID int64) {
	for _, pattern := range []string{cachekey.ProductListPattern(companyID), cachekey.DashboardPattern(companyID)} {
		if err := uc.cache.DeletePattern(ctx, pattern); err != nil {
			logger.FromContext(ctx, uc.logger).Warn("failed to invalidate cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func (uc *inventoryUseCase) ListAudit(ctx context.Context, id *auth.Identity, q *dto.ListAuditQuery) (*dto.AuditPage, error) {
	page, limit := pagination.Normalize(q.Page, q.Limit)
	logs, total, err := uc.repo.ListAudit(ctx, &dto.AuditFilters{
		CompanyID: id.CompanyID,
		ProductID: q.ProductID,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch audit logs")
	}
	return &dto.AuditPage{AuditLogs: logs, Pagination: pagination.New(page, limit, total)}, nil
}
