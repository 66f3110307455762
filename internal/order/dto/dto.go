package dto

import (
	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/pkg/pagination"
)

type OrderFilters struct {
	CompanyID int64
	Scope     auth.LocationFilter
	Status    string
	OrderType string
	Page      int
	Limit     int
}

type OrderPage struct {
	Orders     []model.OrderSummary  `json:"orders"`
	Pagination pagination.Pagination `json:"pagination"`
}

// StatusChangedEvent is the payload of an order.status_changed event.
type StatusChangedEvent struct {
	OrderID     int64             `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	From        model.OrderStatus `json:"from"`
	To          model.OrderStatus `json:"to"`
	UserID      int64             `json:"user_id"`
}
