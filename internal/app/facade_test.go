package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hunabku/comanda/internal/adapter/orderstore"
	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/pkg/auth"
	"github.com/hunabku/comanda/internal/stream"
	"github.com/hunabku/comanda/internal/test"
	"github.com/hunabku/comanda/internal/tracking"
	"github.com/hunabku/comanda/internal/usecase"
)

func newTestFacade(orders ...model.Order) *Facade {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	repo := &test.OrderRepositoryStub{Orders: orders}
	store := orderstore.New(repo, stream.NewBroker(), time.Second, logger)
	products := test.NewProductRepositoryStub(
		model.Product{ID: "tacos", Name: "Tacos al pastor", Price: 75, Available: true},
	)
	staff := test.NewStaffRepositoryStub()

	authUC := usecase.NewAuthUseCase(staff, auth.NewBcryptHasher(4), auth.NewHMACStrategy("secret", auth.Options{}), logger)
	orderUC := usecase.NewOrderUseCase(store, products, usecase.Pricing{}, false, logger)
	menuUC := usecase.NewMenuUseCase(products)
	tableUC := usecase.NewTableUseCase(store, repo, 12)

	return NewFacade(authUC, orderUC, menuUC, tableUC, store, time.Hour, logger)
}

func expectTrackerClosed(t *testing.T, tracker *tracking.Tracker) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-tracker.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected tracker feed to close")
		}
	}
}

func TestFacadePlaceAndFetchOrder(t *testing.T) {
	facade := newTestFacade()

	order, err := facade.PlaceOrder(context.Background(), "5", []model.CartItem{{ProductID: "tacos", Quantity: 2}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Table != "05" || order.Total != 150.00 {
		t.Fatalf("unexpected order %+v", order)
	}

	fetched, err := facade.Order(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.ID != order.ID {
		t.Fatalf("expected order %s, got %s", order.ID, fetched.ID)
	}
}

func TestTrackOrderReplacesPriorFeed(t *testing.T) {
	facade := newTestFacade(model.Order{ID: "order-1", Table: "05", Status: model.OrderStatusPending})

	first, err := facade.TrackOrder(context.Background(), "order-1", "es")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := facade.TrackOrder(context.Background(), "order-1", "es")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer second.Close()

	expectTrackerClosed(t, first)
}

func TestWatchQueueReplacesPriorFeed(t *testing.T) {
	facade := newTestFacade(model.Order{ID: "order-1", Table: "05", Status: model.OrderStatusPending})

	first, err := facade.WatchQueue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := facade.WatchQueue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer second.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-first.Snapshots():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected prior queue feed to close")
		}
	}
}

func TestFacadeBootstrapAndLogin(t *testing.T) {
	facade := newTestFacade()

	if err := facade.BootstrapStaff(context.Background(), "admin", "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, err := facade.Login(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := facade.ParseToken(token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
