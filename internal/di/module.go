// Package di aggregates every fx module of the application.
package di

import (
	"go.uber.org/fx"

	"github.com/hunabku/comanda/internal/adapter/orderstore"
	"github.com/hunabku/comanda/internal/app"
	"github.com/hunabku/comanda/internal/config"
	"github.com/hunabku/comanda/internal/logger"
	"github.com/hunabku/comanda/internal/pkg/auth"
	"github.com/hunabku/comanda/internal/server/http/handlers"
	"github.com/hunabku/comanda/internal/server/http/router"
	"github.com/hunabku/comanda/internal/storage/postgres"
	"github.com/hunabku/comanda/internal/stream"
	"github.com/hunabku/comanda/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		stream.Module,
		orderstore.Module,
		usecase.Module,
		fx.Provide(func(facade *app.Facade) handlers.Facade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
