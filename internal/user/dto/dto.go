package dto

type RegisteredUser struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CompanyID   int64  `json:"companyId"`
	StoreID     *int64 `json:"storeId"`
	WarehouseID *int64 `json:"warehouseId"`
}
