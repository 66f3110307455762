package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypePurchase OrderType = "purchase"
	OrderTypeSales    OrderType = "sales"
	OrderTypeTransfer OrderType = "transfer"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypePurchase, OrderTypeSales, OrderTypeTransfer:
		return true
	}
	return false
}

// Tag is the order number prefix, e.g. "SALES".
func (t OrderType) Tag() string {
	return strings.ToUpper(string(t))
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	BaseModel
	CompanyID     int64           `db:"company_id" json:"company_id"`
	OrderNumber   string          `db:"order_number" json:"order_number"`
	OrderType     OrderType       `db:"order_type" json:"order_type"`
	Status        OrderStatus     `db:"status" json:"status"`
	StoreID       *int64          `db:"store_id" json:"store_id"`
	WarehouseID   *int64          `db:"warehouse_id" json:"warehouse_id"`
	CustomerName  *string         `db:"customer_name" json:"customer_name"`
	CustomerEmail *string         `db:"customer_email" json:"customer_email"`
	CustomerPhone *string         `db:"customer_phone" json:"customer_phone"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	OrderDate     time.Time       `db:"order_date" json:"order_date"`
	CreatedBy     *int64          `db:"created_by" json:"created_by"`
}

type OrderItem struct {
	ID         int64           `db:"id" json:"id"`
	OrderID    int64           `db:"order_id" json:"order_id"`
	ProductID  int64           `db:"product_id" json:"product_id"`
	Quantity   int64           `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

type OrderItemDetail struct {
	OrderItem
	ProductName *string `db:"product_name" json:"product_name"`
	SKU         *string `db:"sku" json:"sku"`
}

// OrderSummary is one row of the order list.
type OrderSummary struct {
	Order
	StoreName     *string `db:"store_name" json:"store_name"`
	StoreCode     *string `db:"store_code" json:"store_code"`
	WarehouseName *string `db:"warehouse_name" json:"warehouse_name"`
	WarehouseCode *string `db:"warehouse_code" json:"warehouse_code"`
	CreatedByName *string `db:"created_by_name" json:"created_by_name"`
	ItemsCount    int64   `db:"items_count" json:"items_count"`
}

type OrderDetail struct {
	Order
	StoreName     *string           `db:"store_name" json:"store_name"`
	WarehouseName *string           `db:"warehouse_name" json:"warehouse_name"`
	Items         []OrderItemDetail `db:"-" json:"items"`
}
