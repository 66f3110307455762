package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CompanyID   int64           `db:"company_id" json:"company_id"`
	SKU         string          `db:"sku" json:"sku"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Category    *string         `db:"category" json:"category"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	CostPrice   decimal.Decimal `db:"cost_price" json:"cost_price"`
	Barcode     *string         `db:"barcode" json:"barcode"`
	IsActive    bool            `db:"is_active" json:"is_active"`
}

// ProductListItem is a product with stock summed over every location holding it.
type ProductListItem struct {
	Product
	TotalStock     int64 `db:"total_stock" json:"total_stock"`
	LocationsCount int64 `db:"locations_count" json:"locations_count"`
}

type ProductLocationStock struct {
	LocationType     string  `db:"location_type" json:"location_type"`
	LocationID       int64   `db:"location_id" json:"location_id"`
	LocationName     *string `db:"location_name" json:"location_name"`
	Quantity         int64   `db:"quantity" json:"quantity"`
	ReservedQuantity int64   `db:"reserved_quantity" json:"reserved_quantity"`
}

type ProductDetail struct {
	Product
	TotalStock         int64                  `db:"total_stock" json:"total_stock"`
	InventoryLocations []ProductLocationStock `db:"-" json:"inventory_locations"`
}
