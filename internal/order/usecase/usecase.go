package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/cachekey"
	"github.com/fekuna/omnipos-erp-service/internal/event"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/order"
	"github.com/fekuna/omnipos-erp-service/internal/order/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
	"github.com/fekuna/omnipos-erp-service/pkg/cache"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/metrics"
	"github.com/fekuna/omnipos-erp-service/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxOrderNumberAttempts = 3

// maxOrderAmount is the largest value the NUMERIC(12,2) totals can hold.
var maxOrderAmount = decimal.RequireFromString("9999999999.99")

type ProductVerifier interface {
	EnsureInTenant(ctx context.Context, companyID int64, productIDs ...int64) error
}

type LocationVerifier interface {
	EnsureInTenant(ctx context.Context, companyID int64, storeID, warehouseID *int64) error
}

type Options struct {
	Cache     *cache.RedisClient
	Publisher event.Publisher
	Metrics   *metrics.Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

type orderUseCase struct {
	repo      order.Repository
	products  ProductVerifier
	locations LocationVerifier
	cache     *cache.RedisClient
	publisher event.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
	logger    logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	products ProductVerifier,
	locations LocationVerifier,
	opts Options,
	log logger.ZapLogger,
) order.UseCase {
	uc := &orderUseCase{
		repo:      repo,
		products:  products,
		locations: locations,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		now:       opts.Now,
		logger:    log,
	}
	if uc.publisher == nil {
		uc.publisher = event.NopPublisher{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

func (uc *orderUseCase) ListOrders(ctx context.Context, id *auth.Identity, q *dto.ListOrdersQuery) (*dto.OrderPage, error) {
	page, limit := pagination.Normalize(q.Page, q.Limit)
	orders, total, err := uc.repo.FindAll(ctx, &dto.OrderFilters{
		CompanyID: id.CompanyID,
		Scope:     id.Scope(auth.LocationFilter{}),
		Status:    q.Status,
		OrderType: q.OrderType,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch orders")
	}
	return &dto.OrderPage{Orders: orders, Pagination: pagination.New(page, limit, total)}, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id *auth.Identity, orderID int64) (*model.OrderDetail, error) {
	d, err := uc.repo.FindDetail(ctx, id.CompanyID, orderID, id.Scope(auth.LocationFilter{}))
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch order")
	}
	if d == nil {
		return nil, apperror.NotFound("Order not found").WithID("OrderNotFound")
	}
	return d, nil
}

// orderNumber is "<TYPE>-<unix millis>", with the attempt appended on retries.
func (uc *orderUseCase) orderNumber(t model.OrderType, attempt int) string {
	n := fmt.Sprintf("%s-%d", t.Tag(), uc.now().UnixMilli())
	if attempt > 1 {
		n = fmt.Sprintf("%s-%d", n, attempt)
	}
	return n
}

// CreateOrder prices the items from the request, not from the catalog.
func (uc *orderUseCase) CreateOrder(ctx context.Context, id *auth.Identity, req *dto.CreateOrderRequest) (*model.OrderDetail, error) {
	orderType := model.OrderType(req.OrderType)
	if !orderType.Valid() {
		return nil, apperror.Validation("Validation failed",
			apperror.FieldError{Field: "orderType", Message: "must be one of [purchase sales transfer]"}).WithID("ValidationFailed")
	}

	storeID, warehouseID, err := id.OrderLocation(req.StoreID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if err := uc.locations.EnsureInTenant(ctx, id.CompanyID, storeID, warehouseID); err != nil {
		return nil, err
	}

	productIDs := make([]int64, 0, len(req.Items))
	items := make([]model.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		price := it.UnitPrice.Round(2)
		line := price.Mul(decimal.NewFromInt(it.Quantity))
		total = total.Add(line)
		productIDs = append(productIDs, it.ProductID)
		items = append(items, model.OrderItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  price,
			TotalPrice: line,
		})
	}
	if total.GreaterThan(maxOrderAmount) {
		return nil, apperror.Validation("Validation failed",
			apperror.FieldError{Field: "items", Message: "order total exceeds " + maxOrderAmount.StringFixed(2)}).WithID("ValidationFailed")
	}
	if err := uc.products.EnsureInTenant(ctx, id.CompanyID, productIDs...); err != nil {
		return nil, err
	}

	userID := id.UserID
	o := &model.Order{
		CompanyID:     id.CompanyID,
		OrderType:     orderType,
		StoreID:       storeID,
		WarehouseID:   warehouseID,
		CustomerName:  model.StringPtr(req.CustomerName),
		CustomerEmail: model.StringPtr(req.CustomerEmail),
		CustomerPhone: model.StringPtr(req.CustomerPhone),
		TotalAmount:   total,
		CreatedBy:     &userID,
	}
	log := logger.FromContext(ctx, uc.logger)

	for attempt := 1; ; attempt++ {
		o.OrderNumber = uc.orderNumber(orderType, attempt)
		err = uc.repo.Create(ctx, o, items)
		if !errors.Is(err, order.ErrOrderNumberTaken) {
			break
		}
		if attempt == maxOrderNumberAttempts {
			log.Warn("order number still taken after retries", zap.String("order_number", o.OrderNumber))
			return nil, apperror.Conflict("Order number conflict, please retry").WithID("OrderNumberConflict")
		}
		uc.metrics.OrderNumberRetried()
	}
	if errors.Is(err, order.ErrUnknownProduct) {
		return nil, apperror.NotFound("Product not found").WithID("ProductNotFound")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to create order").WithID("CreateOrderFailed")
	}

	uc.metrics.OrderCreated(string(orderType))
	log.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Int("items", len(items)),
		zap.String("total", total.StringFixed(2)),
	)

	detail, err := uc.repo.FindDetail(ctx, id.CompanyID, o.ID, auth.LocationFilter{})
	if err != nil || detail == nil {
		if err == nil {
			err = fmt.Errorf("order %d missing after commit", o.ID)
		}
		return nil, apperror.Internal(err, "Failed to fetch order")
	}

	go uc.invalidateDashboard(context.WithoutCancel(ctx), id.CompanyID)
	uc.publisher.Publish(ctx, id.CompanyID, event.TypeOrderCreated, detail)
	return detail, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, id *auth.Identity, orderID int64, req *dto.UpdateStatusRequest) (*model.OrderDetail, error) {
	next := model.OrderStatus(req.Status)
	if !next.Valid() {
		return nil, apperror.Validation("Validation failed",
			apperror.FieldError{Field: "status", Message: "is invalid"}).WithID("ValidationFailed")
	}

	current, err := uc.GetOrder(ctx, id, orderID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, apperror.Conflict(fmt.Sprintf("Cannot change order status from %s to %s", current.Status, next)).
			WithID("InvalidStatusTransition")
	}

	ok, err := uc.repo.UpdateStatus(ctx, id.CompanyID, orderID, current.Status, next)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to update order status")
	}
	if !ok {
		return nil, apperror.Conflict("Order status changed concurrently, please retry").WithID("InvalidStatusTransition")
	}

	logger.FromContext(ctx, uc.logger).Info("order status changed",
		zap.Int64("order_id", orderID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)),
	)

	go uc.invalidateDashboard(context.WithoutCancel(ctx), id.CompanyID)
	uc.publisher.Publish(ctx, id.CompanyID, event.TypeOrderStatusChanged, dto.StatusChangedEvent{
		OrderID:     orderID,
		OrderNumber: current.OrderNumber,
		From:        current.Status,
		To:          next,
		UserID:      id.UserID,
	})

	return uc.GetOrder(ctx, id, orderID)
}

func (uc *orderUseCase) invalidateDashboard(ctx context.Context, companyID int64) {
	if err := uc.cache.DeletePattern(ctx, cachekey.DashboardPattern(companyID)); err != nil {
		logger.FromContext(ctx, uc.logger).Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
