package dto

type CreateStoreRequest struct {
	StoreCode   string `json:"storeCode" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=255"`
	Region      string `json:"region" validate:"max=100"`
	State       string `json:"state" validate:"max=100"`
	MainContact string `json:"mainContact" validate:"max=255"`
	Phone       string `json:"phone" validate:"max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address"`
}

type CreateWarehouseRequest struct {
	WarehouseCode string `json:"warehouseCode" validate:"required,max=50"`
	Name          string `json:"name" validate:"required,max=255"`
	Location      string `json:"location" validate:"max=255"`
	ManagerName   string `json:"managerName" validate:"max=255"`
	Phone         string `json:"phone" validate:"max=50"`
	Email         string `json:"email" validate:"omitempty,email"`
}
