package dto

import (
	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/pkg/pagination"
)

type InventoryFilters struct {
	CompanyID int64
	Scope     auth.LocationFilter
	ProductID *int64
	LowStock  bool
}

type AdjustInput struct {
	CompanyID   int64
	UserID      int64
	ProductID   int64
	StoreID     *int64
	WarehouseID *int64
	Delta       int64
	Reason      string
}

const (
	PathInsert = "insert"
	PathUpdate = "update"
)

type AdjustResult struct {
	Inventory model.Inventory
	Path      string
	// PreviousQuantity is set on the update path only.
	PreviousQuantity *int64
}

type AuditFilters struct {
	CompanyID int64
	ProductID *int64
	Page      int
	Limit     int
}

type AuditPage struct {
	AuditLogs  []model.AuditLogView  `json:"auditLogs"`
	Pagination pagination.Pagination `json:"pagination"`
}

// AdjustedEvent is the payload of an inventory.adjusted event.
type AdjustedEvent struct {
	Inventory model.Inventory `json:"inventory"`
	Delta     int64           `json:"delta"`
	Reason    string          `json:"reason"`
	UserID    int64           `json:"user_id"`
}
