package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/cachekey"
	"github.com/fekuna/omnipos-erp-service/internal/dashboard"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/cache"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	statsTTL          = 60 * time.Second
	recentOrdersLimit = 5
	lowStockLimit     = 10
)

type Options struct {
	Cache   *cache.RedisClient
	Metrics *metrics.Metrics
}

type dashboardUseCase struct {
	repo    dashboard.Repository
	cache   *cache.RedisClient
	metrics *metrics.Metrics
	logger  logger.ZapLogger
}

func NewDashboardUseCase(repo dashboard.Repository, opts Options, log logger.ZapLogger) dashboard.UseCase {
	return &dashboardUseCase{
		repo:    repo,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		logger:  log,
	}
}

func (uc *dashboardUseCase) Stats(ctx context.Context, id *auth.Identity) (*model.DashboardStats, error) {
	log := logger.FromContext(ctx, uc.logger)
	scope := id.Scope(auth.LocationFilter{})
	key := cachekey.DashboardStats(id.CompanyID, id.Role.String()+":"+scope.Key())

	var cached model.DashboardStats
	hit, err := uc.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		log.Warn("dashboard cache read failed", zap.Error(err))
	}
	uc.metrics.CacheResult("dashboard", hit)
	if hit {
		return &cached, nil
	}

	stats := &model.DashboardStats{RecentOrders: []model.RecentOrder{}}
	var byType map[model.OrderType]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalProducts, err = uc.repo.CountProducts(gctx, id.CompanyID)
		return err
	})
	g.Go(func() (err error) {
		byType, err = uc.repo.CountOrdersByType(gctx, id.CompanyID, scope)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalStock, stats.InventoryLocations, err = uc.repo.StockTotals(gctx, id.CompanyID, scope)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentOrders, err = uc.repo.RecentOrders(gctx, id.CompanyID, scope, recentOrdersLimit)
		return err
	})
	if id.IsHeadquarter() {
		var stores, warehouses int64
		stats.TotalStores, stats.TotalWarehouses = &stores, &warehouses
		g.Go(func() (err error) {
			stores, err = uc.repo.CountStores(gctx, id.CompanyID)
			return err
		})
		g.Go(func() (err error) {
			warehouses, err = uc.repo.CountWarehouses(gctx, id.CompanyID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(err, "Failed to fetch dashboard stats")
	}

	stats.Orders = model.OrderCounts{
		Purchase: byType[model.OrderTypePurchase],
		Sales:    byType[model.OrderTypeSales],
		Transfer: byType[model.OrderTypeTransfer],
	}
	for _, n := range byType {
		stats.Orders.Total += n
	}

	if err := uc.cache.SetJSON(ctx, key, stats, statsTTL); err != nil {
		log.Warn("dashboard cache write failed", zap.Error(err))
	}
	return stats, nil
}

func (uc *dashboardUseCase) LowStock(ctx context.Context, id *auth.Identity) ([]model.LowStockItem, error) {
	items, err := uc.repo.LowStock(ctx, id.CompanyID, id.Scope(auth.LocationFilter{}), lowStockLimit)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch low stock items")
	}
	return items, nil
}
