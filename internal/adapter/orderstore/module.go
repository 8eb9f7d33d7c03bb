package orderstore

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/hunabku/comanda/internal/config"
	"github.com/hunabku/comanda/internal/domain/repository"
	"github.com/hunabku/comanda/internal/stream"
)

// Module exposes the order store adapter to the fx graph.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Orders repository.OrderRepository
	Broker *stream.Broker
	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) *Store {
	return New(p.Orders, p.Broker, p.Config.CreateTimeout, p.Logger)
}
