package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/hunabku/comanda/internal/adapter/orderstore"
	"github.com/hunabku/comanda/internal/config"
	"github.com/hunabku/comanda/internal/domain/repository"
	"github.com/hunabku/comanda/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newOrderUseCase,
	newMenuUseCase,
	newTableUseCase,
	newAuthUseCase,
)

type orderParams struct {
	fx.In

	Store    *orderstore.Store
	Products repository.ProductRepository
	Config   *config.Config
	Logger   *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	pricing := Pricing{TaxRate: p.Config.TaxRate, ServiceFee: p.Config.ServiceFee}
	return NewOrderUseCase(p.Store, p.Products, pricing, p.Config.AllowStatusSkip, p.Logger)
}

func newMenuUseCase(products repository.ProductRepository) *MenuUseCase {
	return NewMenuUseCase(products)
}

type tableParams struct {
	fx.In

	Store  *orderstore.Store
	Orders repository.OrderRepository
	Config *config.Config
}

func newTableUseCase(p tableParams) *TableUseCase {
	return NewTableUseCase(p.Store, p.Orders, p.Config.TableCount)
}

type authParams struct {
	fx.In

	Staff    repository.StaffRepository
	Hasher   auth.PasswordHasher
	Strategy auth.Strategy
	Logger   *slog.Logger
}

func newAuthUseCase(p authParams) *AuthUseCase {
	return NewAuthUseCase(p.Staff, p.Hasher, p.Strategy, p.Logger)
}
