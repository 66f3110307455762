package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ListProductsQuery struct {
	Page     int    `json:"page" validate:"omitempty,min=1"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=100"`
	Search   string `json:"search"`
	Category string `json:"category"`
}

type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,max=100"`
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"max=100"`
	UnitPrice   *decimal.Decimal `json:"unitPrice" validate:"required,gte=0,lte=99999999.99"`
	CostPrice   *decimal.Decimal `json:"costPrice" validate:"required,gte=0,lte=99999999.99"`
	Barcode     string          `json:"barcode" validate:"max=255"`
}

func (r *CreateProductRequest) Normalize() {
	r.SKU = strings.TrimSpace(r.SKU)
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.Barcode = strings.TrimSpace(r.Barcode)
}
