package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/domain/repository"
	"github.com/hunabku/comanda/internal/lifecycle"
	"github.com/hunabku/comanda/internal/stream"
)

// OrderStore is the subset of the store adapter the order use case needs.
type OrderStore interface {
	CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	ListActive(ctx context.Context) ([]model.Order, error)
	SubscribeOrder(ctx context.Context, orderID string) (*stream.Subscription, error)
	SubscribeActive(ctx context.Context) (*stream.Subscription, error)
}

// Pricing holds the checkout surcharge policy. Both rates default to zero;
// deployments that charge tax or service set them explicitly.
type Pricing struct {
	TaxRate    float64
	ServiceFee float64
}

// OrderUseCase encapsulates order lifecycle logic: checkout on the customer
// side and status transitions on the staff side.
type OrderUseCase struct {
	store     OrderStore
	products  repository.ProductRepository
	pricing   Pricing
	allowSkip bool
	logger    *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(store OrderStore, products repository.ProductRepository, pricing Pricing, allowSkip bool, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{store: store, products: products, pricing: pricing, allowSkip: allowSkip, logger: logger}
}

// PlaceOrder validates the cart, snapshots prices and names from the
// catalog, and creates a pending order. On failure the caller keeps the
// cart; nothing is created locally as a fallback.
func (u *OrderUseCase) PlaceOrder(ctx context.Context, table string, items []model.CartItem, notes string) (*model.Order, error) {
	table = NormalizeTable(table)
	if table == "" {
		return nil, domainErrors.ErrInvalidTable
	}
	if len(items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	lineItems := make([]model.LineItem, 0, len(items))
	var subtotal float64
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		product, err := u.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if err == domainErrors.ErrNotFound {
				return nil, fmt.Errorf("%w: %s", domainErrors.ErrProductUnavailable, item.ProductID)
			}
			return nil, err
		}
		if !product.Available {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrProductUnavailable, product.Name)
		}
		line := model.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		}
		lineItems = append(lineItems, line)
		subtotal += line.Total()
	}

	tax := roundMoney(subtotal * u.pricing.TaxRate)
	service := roundMoney(subtotal * u.pricing.ServiceFee)
	subtotal = roundMoney(subtotal)

	draft := model.OrderDraft{
		Table:     table,
		LineItems: lineItems,
		Subtotal:  subtotal,
		Tax:       tax,
		Service:   service,
		Total:     roundMoney(subtotal + tax + service),
		Code:      newConfirmationCode(),
		Notes:     notes,
	}

	return u.store.CreateOrder(ctx, draft)
}

// RequestTransition is the single entry point for staff status changes.
// Invalid transitions are rejected before any store call is made.
func (u *OrderUseCase) RequestTransition(ctx context.Context, orderID string, target model.OrderStatus) error {
	order, err := u.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	current, ok := lifecycle.Normalize(string(order.Status))
	if !ok {
		u.logger.Warn("unrecognized stored status, treating as pending",
			slog.String("order", orderID),
			slog.String("status", string(order.Status)),
		)
	}

	if err := lifecycle.ValidateTransition(current, target, u.allowSkip); err != nil {
		return err
	}

	return u.store.UpdateStatus(ctx, orderID, target)
}

// Order fetches one order.
func (u *OrderUseCase) Order(ctx context.Context, orderID string) (*model.Order, error) {
	return u.store.GetOrder(ctx, orderID)
}

// ActiveOrders returns the non-terminal set, optionally filtered by status.
func (u *OrderUseCase) ActiveOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	orders, err := u.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return orders, nil
	}
	filtered := make([]model.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

// AllowSkip reports the configured skip policy.
func (u *OrderUseCase) AllowSkip() bool {
	return u.allowSkip
}

// NormalizeTable pads single-digit table numbers the way the room is
// labeled ("5" becomes "05").
func NormalizeTable(table string) string {
	if len(table) == 1 {
		return "0" + table
	}
	return table
}

// newConfirmationCode returns a short human-readable pickup code. Codes are
// display values, not identifiers; collisions are tolerated.
func newConfirmationCode() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
