package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Inventory is the stock of one product at exactly one store or warehouse.
type Inventory struct {
	ID               int64     `db:"id" json:"id"`
	CompanyID        int64     `db:"company_id" json:"company_id"`
	ProductID        int64     `db:"product_id" json:"product_id"`
	StoreID          *int64    `db:"store_id" json:"store_id"`
	WarehouseID      *int64    `db:"warehouse_id" json:"warehouse_id"`
	Quantity         int64     `db:"quantity" json:"quantity"`
	ReservedQuantity int64     `db:"reserved_quantity" json:"reserved_quantity"`
	ReorderLevel     int64     `db:"reorder_level" json:"reorder_level"`
	MaxStockLevel    *int64    `db:"max_stock_level" json:"max_stock_level"`
	LastUpdated      time.Time `db:"last_updated" json:"last_updated"`
}

func (i *Inventory) Available() int64 {
	return i.Quantity - i.ReservedQuantity
}

// InventoryView is an inventory row joined with product and location names.
type InventoryView struct {
	Inventory
	ProductName       string          `db:"product_name" json:"product_name"`
	SKU               string          `db:"sku" json:"sku"`
	UnitPrice         decimal.Decimal `db:"unit_price" json:"unit_price"`
	StoreName         *string         `db:"store_name" json:"store_name"`
	StoreCode         *string         `db:"store_code" json:"store_code"`
	WarehouseName     *string         `db:"warehouse_name" json:"warehouse_name"`
	WarehouseCode     *string         `db:"warehouse_code" json:"warehouse_code"`
	AvailableQuantity int64           `db:"available_quantity" json:"available_quantity"`
}

const (
	AuditTableInventory       = "inventory"
	AuditActionQuantityAdjust = "quantity_adjustment"
)

// AuditLog rows are append only.
type AuditLog struct {
	ID        int64           `db:"id" json:"id"`
	CompanyID int64           `db:"company_id" json:"company_id"`
	UserID    *int64          `db:"user_id" json:"user_id"`
	TableName string          `db:"table_name" json:"table_name"`
	RecordID  int64           `db:"record_id" json:"record_id"`
	Action    string          `db:"action" json:"action"`
	OldValues *types.JSONText `db:"old_values" json:"old_values"`
	NewValues *types.JSONText `db:"new_values" json:"new_values"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// AuditLogView adds the acting user's name.
type AuditLogView struct {
	AuditLog
	UserName *string `db:"user_name" json:"user_name"`
}
