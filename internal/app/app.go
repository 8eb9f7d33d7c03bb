package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/hunabku/comanda/internal/adapter/orderstore"
	"github.com/hunabku/comanda/internal/config"
	"github.com/hunabku/comanda/internal/stream"
	"github.com/hunabku/comanda/internal/usecase"
	"github.com/hunabku/comanda/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newFacade,
		newHTTPServer,
		newChangeListener,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Auth   *usecase.AuthUseCase
	Orders *usecase.OrderUseCase
	Menu   *usecase.MenuUseCase
	Tables *usecase.TableUseCase
	Store  *orderstore.Store
	Config *config.Config
	Logger *slog.Logger
}

func newFacade(p facadeParams) *Facade {
	return NewFacade(p.Auth, p.Orders, p.Menu, p.Tables, p.Store, p.Config.DeliveredGrace, p.Logger)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type listenerParams struct {
	fx.In

	Config *config.Config
	Broker *stream.Broker
	Logger *slog.Logger
}

func newChangeListener(p listenerParams) *worker.ChangeListener {
	return worker.NewChangeListener(p.Config.DatabaseURI, p.Broker, 0, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Listener   *worker.ChangeListener
	Facade     *Facade
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Facade.BootstrapStaff(ctx, p.Config.StaffLogin, p.Config.StaffPassword); err != nil {
				return err
			}
			p.Logger.Info("starting comanda", slog.String("addr", p.Server.Addr))
			p.Listener.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Listener.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("comanda stopped")
			return nil
		},
	})
}
