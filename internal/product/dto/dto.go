package dto

import (
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/pkg/pagination"
)

type ProductFilters struct {
	CompanyID int64
	Search    string
	Category  string
	Page      int
	Limit     int
}

// ProductPage is both the list response and the cached value.
type ProductPage struct {
	Products   []model.ProductListItem `json:"products"`
	Pagination pagination.Pagination   `json:"pagination"`
}

// Document is the search index form of a product.
type Document struct {
	CompanyID   int64   `json:"company_id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Barcode     *string `json:"barcode,omitempty"`
	IsActive    bool    `json:"is_active"`
}

func NewDocument(p *model.Product) Document {
	return Document{
		CompanyID:   p.CompanyID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Barcode:     p.Barcode,
		IsActive:    p.IsActive,
	}
}

const IndexMapping = `{
	"mappings": {
		"properties": {
			"company_id": { "type": "long" },
			"sku": { "type": "keyword", "normalizer": "lowercase" },
			"name": {
				"type": "text",
				"fields": { "raw": { "type": "keyword", "normalizer": "lowercase" } }
			},
			"description": {
				"type": "text",
				"fields": { "raw": { "type": "keyword", "normalizer": "lowercase", "ignore_above": 1024 } }
			},
			"category": { "type": "keyword" },
			"barcode": { "type": "keyword" },
			"is_active": { "type": "boolean" }
		}
	},
	"settings": {
		"analysis": {
			"normalizer": {
				"lowercase": { "type": "custom", "filter": ["lowercase"] }
			}
		}
	}
}`
