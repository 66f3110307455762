package order

import (
	"context"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/order/dto"
)

type UseCase interface {
	ListOrders(ctx context.Context, id *auth.Identity, query *dto.ListOrdersQuery) (*dto.OrderPage, error)
	GetOrder(ctx context.Context, id *auth.Identity, orderID int64) (*model.OrderDetail, error)
	CreateOrder(ctx context.Context, id *auth.Identity, req *dto.CreateOrderRequest) (*model.OrderDetail, error)
	UpdateStatus(ctx context.Context, id *auth.Identity, orderID int64, req *dto.UpdateStatusRequest) (*model.OrderDetail, error)
}
