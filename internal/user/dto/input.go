package dto

import "strings"

// RegisterRequest also accepts the older firebaseUid and companyCode field names.
type RegisterRequest struct {
	ExternalUID string `json:"externalUid" validate:"required,max=255"`
	FirebaseUID string `json:"firebaseUid"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Role        string `json:"role" validate:"required,oneof=headquarter headquarters warehouse store"`
	TenantCode  string `json:"tenantCode" validate:"required,min=2,max=50"`
	CompanyCode string `json:"companyCode"`
	StoreID     *int64 `json:"storeId" validate:"omitempty,gt=0"`
	WarehouseID *int64 `json:"warehouseId" validate:"omitempty,gt=0"`
}

// Normalize folds the alias fields into their canonical names. Call it before validation.
func (r *RegisterRequest) Normalize() {
	if r.ExternalUID == "" {
		r.ExternalUID = r.FirebaseUID
	}
	if r.TenantCode == "" {
		r.TenantCode = r.CompanyCode
	}
	r.ExternalUID = strings.TrimSpace(r.ExternalUID)
	r.TenantCode = strings.TrimSpace(r.TenantCode)
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

type RegisterInput struct {
	ExternalUID string
	Email       string
	Name        string
	Role        string
	TenantCode  string
	StoreID     *int64
	WarehouseID *int64
}
