package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run drives the application until the signal context or the app itself
// asks for shutdown. Stop gets a fresh context so teardown is not cut
// short by the signal that triggered it.
func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "comanda: start failed: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "comanda: stop failed: %v\n", err)
		os.Exit(1)
	}
}
