package usecase

import (
	"context"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/domain/repository"
)

// MenuUseCase manages the product catalog. Customers read the available
// subset; staff own the full CRUD surface.
type MenuUseCase struct {
	products repository.ProductRepository
}

// NewMenuUseCase constructs MenuUseCase.
func NewMenuUseCase(products repository.ProductRepository) *MenuUseCase {
	return &MenuUseCase{products: products}
}

// CustomerMenu returns available products only.
func (u *MenuUseCase) CustomerMenu(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx, true)
}

// Products returns the full catalog for the panel.
func (u *MenuUseCase) Products(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx, false)
}

// Product fetches one catalog entry.
func (u *MenuUseCase) Product(ctx context.Context, productID string) (*model.Product, error) {
	return u.products.GetByID(ctx, productID)
}

// CreateProduct adds a catalog entry after basic validation.
func (u *MenuUseCase) CreateProduct(ctx context.Context, product model.Product) (*model.Product, error) {
	if product.Name == "" || product.Price < 0 {
		return nil, domainErrors.ErrInvalidProduct
	}
	return u.products.Create(ctx, product)
}

// UpdateProduct replaces a catalog entry. Existing orders keep their
// snapshotted names and prices.
func (u *MenuUseCase) UpdateProduct(ctx context.Context, product model.Product) (*model.Product, error) {
	if product.ID == "" || product.Name == "" || product.Price < 0 {
		return nil, domainErrors.ErrInvalidProduct
	}
	return u.products.Update(ctx, product)
}

// DeleteProduct removes a catalog entry.
func (u *MenuUseCase) DeleteProduct(ctx context.Context, productID string) error {
	return u.products.Delete(ctx, productID)
}
