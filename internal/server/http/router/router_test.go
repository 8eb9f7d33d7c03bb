package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/test"
	"github.com/hunabku/comanda/internal/tracking"
	"github.com/hunabku/comanda/internal/usecase"
)

type routerFacadeStub struct {
	store *test.OrderStoreStub
}

func newRouterFacadeStub() *routerFacadeStub {
	return &routerFacadeStub{store: test.NewOrderStoreStub()}
}

func (s *routerFacadeStub) Login(context.Context, string, string) (string, error) {
	return "token", nil
}

func (s *routerFacadeStub) ParseToken(token string) (int64, error) {
	return 1, nil
}

func (s *routerFacadeStub) CustomerMenu(context.Context) ([]model.Product, error) {
	return []model.Product{{ID: "tacos", Name: "Tacos", Price: 75, Available: true}}, nil
}

func (s *routerFacadeStub) Products(context.Context) ([]model.Product, error) {
	return nil, nil
}

func (s *routerFacadeStub) Product(ctx context.Context, id string) (*model.Product, error) {
	return &model.Product{ID: id}, nil
}

func (s *routerFacadeStub) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	return &p, nil
}

func (s *routerFacadeStub) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	return &p, nil
}

func (s *routerFacadeStub) DeleteProduct(context.Context, string) error {
	return nil
}

func (s *routerFacadeStub) PlaceOrder(ctx context.Context, table string, items []model.CartItem, notes string) (*model.Order, error) {
	return &model.Order{ID: "order-1", Table: table, Status: model.OrderStatusPending}, nil
}

func (s *routerFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *routerFacadeStub) TrackOrder(ctx context.Context, id, locale string) (*tracking.Tracker, error) {
	return tracking.Track(ctx, s.store, id, locale, time.Hour, discardLogger())
}

func (s *routerFacadeStub) ActiveOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return s.store.ListActive(ctx)
}

func (s *routerFacadeStub) RequestTransition(context.Context, string, model.OrderStatus) error {
	return nil
}

func (s *routerFacadeStub) WatchQueue(ctx context.Context) (*tracking.Queue, error) {
	return tracking.Watch(ctx, s.store, discardLogger())
}

func (s *routerFacadeStub) Tables(context.Context) ([]model.Table, error) {
	return []model.Table{{Number: "01"}}, nil
}

func (s *routerFacadeStub) Stats(context.Context) (*usecase.Stats, error) {
	return &usecase.Stats{TableCount: 12}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSetupRoutes(t *testing.T) {
	engine := Setup(newRouterFacadeStub(), discardLogger())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/menu", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /api/menu, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/panel/orders", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for panel without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/panel/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for authorized panel request, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", w.Code)
	}
}

func TestSetupLoginSetsCookie(t *testing.T) {
	engine := Setup(newRouterFacadeStub(), discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/panel/login", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty login payload, got %d", w.Code)
	}
}
