package dto

import "strings"

type ListInventoryQuery struct {
	StoreID     *int64
	WarehouseID *int64
	ProductID   *int64
	LowStock    bool
}

type AdjustInventoryRequest struct {
	ProductID   int64  `json:"productId" validate:"required,gt=0"`
	StoreID     *int64 `json:"storeId" validate:"omitempty,gt=0"`
	WarehouseID *int64 `json:"warehouseId" validate:"omitempty,gt=0"`
	Quantity    *int64 `json:"quantity" validate:"required,min=-2147483648,max=2147483647"`
	Reason      string `json:"reason" validate:"required,max=255"`
}

func (r *AdjustInventoryRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

type ListAuditQuery struct {
	Page      int    `json:"page" validate:"omitempty,min=1"`
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=100"`
	ProductID *int64 `json:"productId" validate:"omitempty,gt=0"`
}
