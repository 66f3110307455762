package model

type OrderCounts struct {
	Purchase int64 `json:"purchase"`
	Sales    int64 `json:"sales"`
	Transfer int64 `json:"transfer"`
	Total    int64 `json:"total"`
}

type RecentOrder struct {
	Order
	StoreName     *string `db:"store_name" json:"store_name"`
	WarehouseName *string `db:"warehouse_name" json:"warehouse_name"`
}

type DashboardStats struct {
	TotalProducts      int64         `json:"totalProducts"`
	TotalStock         int64         `json:"totalStock"`
	InventoryLocations int64         `json:"inventoryLocations"`
	Orders             OrderCounts   `json:"orders"`
	RecentOrders       []RecentOrder `json:"recentOrders"`
	TotalStores        *int64        `json:"totalStores,omitempty"`
	TotalWarehouses    *int64        `json:"totalWarehouses,omitempty"`
}

// LowStockItem is an inventory row at or below its reorder level.
type LowStockItem struct {
	Inventory
	ProductName   string  `db:"product_name" json:"product_name"`
	SKU           string  `db:"sku" json:"sku"`
	StoreName     *string `db:"store_name" json:"store_name"`
	StoreCode     *string `db:"store_code" json:"store_code"`
	WarehouseName *string `db:"warehouse_name" json:"warehouse_name"`
	WarehouseCode *string `db:"warehouse_code" json:"warehouse_code"`
}
