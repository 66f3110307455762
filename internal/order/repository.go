package order

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/order/dto"
)

// ErrOrderNumberTaken is returned by Create when the generated order number already exists
// for the tenant. Nothing was written.
var ErrOrderNumberTaken = errors.New("order number already exists")

// ErrUnknownProduct is returned by Create when an item references a product that no longer exists.
var ErrUnknownProduct = errors.New("order item references a missing product")

type Repository interface {
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.OrderSummary, int, error)
	FindDetail(ctx context.Context, companyID, id int64, scope auth.LocationFilter) (*model.OrderDetail, error)

	// Create inserts the header and every item in one transaction, filling in generated columns.
	Create(ctx context.Context, order *model.Order, items []model.OrderItem) error

	// UpdateStatus moves the order from one status to another. It reports false when the order
	// was no longer in status from.
	UpdateStatus(ctx context.Context, companyID, id int64, from, to model.OrderStatus) (bool, error)
}
