package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ListOrdersQuery struct {
	Page      int    `json:"page" validate:"omitempty,min=1"`
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=100"`
	Status    string `json:"status" validate:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	OrderType string `json:"orderType" validate:"omitempty,oneof=purchase sales transfer"`
}

type CreateOrderItem struct {
	ProductID int64            `json:"productId" validate:"required,gt=0"`
	Quantity  int64            `json:"quantity" validate:"required,min=1,max=2147483647"`
	UnitPrice *decimal.Decimal `json:"unitPrice" validate:"required,gte=0,lte=99999999.99"`
}

type CreateOrderRequest struct {
	OrderType     string            `json:"orderType" validate:"required,oneof=purchase sales transfer"`
	StoreID       *int64            `json:"storeId" validate:"omitempty,gt=0"`
	WarehouseID   *int64            `json:"warehouseId" validate:"omitempty,gt=0"`
	CustomerName  string            `json:"customerName" validate:"max=255"`
	CustomerEmail string            `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string            `json:"customerPhone" validate:"max=50"`
	Items         []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
}

func (r *CreateOrderRequest) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.TrimSpace(r.CustomerEmail)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}
