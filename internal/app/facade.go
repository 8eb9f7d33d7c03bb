package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hunabku/comanda/internal/adapter/orderstore"
	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/tracking"
	"github.com/hunabku/comanda/internal/usecase"
)

// Facade aggregates the full set of operations exposed over HTTP. It also
// owns the live-view registry: at most one tracker per order and one queue
// feed exist at a time, and opening a replacement closes its predecessor.
type Facade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
	menu   *usecase.MenuUseCase
	tables *usecase.TableUseCase
	store  *orderstore.Store
	grace  time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	trackers map[string]*tracking.Tracker
	queue    *tracking.Queue
}

// NewFacade constructs the application facade.
func NewFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, menu *usecase.MenuUseCase, tables *usecase.TableUseCase, store *orderstore.Store, grace time.Duration, logger *slog.Logger) *Facade {
	return &Facade{
		auth:     auth,
		orders:   orders,
		menu:     menu,
		tables:   tables,
		store:    store,
		grace:    grace,
		logger:   logger,
		trackers: make(map[string]*tracking.Tracker),
	}
}

func (f *Facade) Login(ctx context.Context, login, password string) (string, error) {
	return f.auth.Login(ctx, login, password)
}

func (f *Facade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

// BootstrapStaff seeds the configured panel account at startup.
func (f *Facade) BootstrapStaff(ctx context.Context, login, password string) error {
	return f.auth.EnsureBootstrapAccount(ctx, login, password)
}

func (f *Facade) CustomerMenu(ctx context.Context) ([]model.Product, error) {
	return f.menu.CustomerMenu(ctx)
}

func (f *Facade) Products(ctx context.Context) ([]model.Product, error) {
	return f.menu.Products(ctx)
}

func (f *Facade) Product(ctx context.Context, productID string) (*model.Product, error) {
	return f.menu.Product(ctx, productID)
}

func (f *Facade) CreateProduct(ctx context.Context, product model.Product) (*model.Product, error) {
	return f.menu.CreateProduct(ctx, product)
}

func (f *Facade) UpdateProduct(ctx context.Context, product model.Product) (*model.Product, error) {
	return f.menu.UpdateProduct(ctx, product)
}

func (f *Facade) DeleteProduct(ctx context.Context, productID string) error {
	return f.menu.DeleteProduct(ctx, productID)
}

func (f *Facade) PlaceOrder(ctx context.Context, table string, items []model.CartItem, notes string) (*model.Order, error) {
	return f.orders.PlaceOrder(ctx, table, items, notes)
}

func (f *Facade) Order(ctx context.Context, orderID string) (*model.Order, error) {
	return f.orders.Order(ctx, orderID)
}

func (f *Facade) ActiveOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return f.orders.ActiveOrders(ctx, status)
}

func (f *Facade) RequestTransition(ctx context.Context, orderID string, target model.OrderStatus) error {
	return f.orders.RequestTransition(ctx, orderID, target)
}

// TrackOrder opens the customer tracking feed for one order. A previous
// feed for the same order is closed first.
func (f *Facade) TrackOrder(ctx context.Context, orderID, locale string) (*tracking.Tracker, error) {
	tracker, err := tracking.Track(ctx, f.store, orderID, locale, f.grace, f.logger)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	if prior, ok := f.trackers[orderID]; ok {
		prior.Close()
	}
	f.trackers[orderID] = tracker
	f.mu.Unlock()
	return tracker, nil
}

// WatchQueue opens the staff queue feed, closing the previous one.
func (f *Facade) WatchQueue(ctx context.Context) (*tracking.Queue, error) {
	queue, err := tracking.Watch(ctx, f.store, f.logger)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.queue != nil {
		f.queue.Close()
	}
	f.queue = queue
	f.mu.Unlock()
	return queue, nil
}

func (f *Facade) Tables(ctx context.Context) ([]model.Table, error) {
	return f.tables.Snapshot(ctx)
}

func (f *Facade) Stats(ctx context.Context) (*usecase.Stats, error) {
	return f.tables.Stats(ctx)
}
