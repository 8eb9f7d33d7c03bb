package handlers

import (
	"context"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/tracking"
	"github.com/hunabku/comanda/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// MenuFacade encapsulates catalog operations exposed via HTTP.
type MenuFacade interface {
	CustomerMenu(ctx context.Context) ([]model.Product, error)
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, productID string) (*model.Product, error)
	CreateProduct(ctx context.Context, product model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// OrderFacade covers the customer ordering surface.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, table string, items []model.CartItem, notes string) (*model.Order, error)
	Order(ctx context.Context, orderID string) (*model.Order, error)
	TrackOrder(ctx context.Context, orderID, locale string) (*tracking.Tracker, error)
}

// PanelFacade covers the staff surface.
type PanelFacade interface {
	ActiveOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	RequestTransition(ctx context.Context, orderID string, target model.OrderStatus) error
	WatchQueue(ctx context.Context) (*tracking.Queue, error)
	Tables(ctx context.Context) ([]model.Table, error)
	Stats(ctx context.Context) (*usecase.Stats, error)
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	AuthFacade
	MenuFacade
	OrderFacade
	PanelFacade
}
