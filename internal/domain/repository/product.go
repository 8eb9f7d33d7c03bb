package repository

import (
	"context"

	"github.com/hunabku/comanda/internal/domain/model"
)

// ProductRepository describes persistence operations with the menu catalog.
type ProductRepository interface {
	Create(ctx context.Context, product model.Product) (*model.Product, error)
	GetByID(ctx context.Context, productID string) (*model.Product, error)
	List(ctx context.Context, availableOnly bool) ([]model.Product, error)
	Update(ctx context.Context, product model.Product) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
}
