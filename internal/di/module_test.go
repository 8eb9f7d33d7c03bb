package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/hunabku/comanda/internal/app"
	"github.com/hunabku/comanda/internal/config"
	"github.com/hunabku/comanda/internal/domain/repository"
	"github.com/hunabku/comanda/internal/storage/postgres"
	"github.com/hunabku/comanda/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		StaffSecret:     "secret",
		TableCount:      12,
		CreateTimeout:   time.Second,
		DeliveredGrace:  time.Millisecond,
		ShutdownTimeout: time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	orderRepo := &test.OrderRepositoryStub{}
	productRepo := test.NewProductRepositoryStub()
	staffRepo := test.NewStaffRepositoryStub()

	var facade *app.Facade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.ProductRepository(productRepo)),
			fx.Replace(repository.StaffRepository(staffRepo)),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected application facade instance")
	}
}
