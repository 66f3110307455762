package product

import (
	"context"

	"github.com/fekuna/omnipos-erp-service/internal/auth"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/product/dto"
)

type UseCase interface {
	ListProducts(ctx context.Context, id *auth.Identity, query *dto.ListProductsQuery) (*dto.ProductPage, error)
	GetProduct(ctx context.Context, id *auth.Identity, productID int64) (*model.ProductDetail, error)
	CreateProduct(ctx context.Context, id *auth.Identity, input *dto.CreateProductRequest) (*model.Product, error)

	// EnsureInTenant returns a not found error unless every id is a product of companyID.
	EnsureInTenant(ctx context.Context, companyID int64, productIDs ...int64) error
}
