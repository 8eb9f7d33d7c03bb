// Package router assembles the gin engine: middleware chain, customer
// endpoints, and the authenticated staff panel.
package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/hunabku/comanda/internal/server/http/handlers"
	"github.com/hunabku/comanda/internal/server/http/middleware"
)

// Setup configures the gin router with handlers and middleware.
func Setup(facade handlers.Facade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	// SSE endpoints must not be buffered by the compressor.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`.*/stream$`})))

	authHandler := handlers.NewAuthHandler(facade)
	menuHandler := handlers.NewMenuHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	panelHandler := handlers.NewPanelHandler(facade, logger)

	api := engine.Group("/api")
	api.GET("/menu", menuHandler.Customer)
	api.POST("/orders", orderHandler.Checkout)
	api.GET("/orders/:id", orderHandler.Get)
	api.GET("/orders/:id/stream", orderHandler.Stream)

	panel := api.Group("/panel")
	panel.POST("/login", authHandler.Login)

	panelAuth := panel.Group("")
	panelAuth.Use(middleware.AuthRequired(facade))
	panelAuth.GET("/orders", panelHandler.Orders)
	panelAuth.GET("/orders/stream", panelHandler.Stream)
	panelAuth.POST("/orders/:id/status", panelHandler.Transition)
	panelAuth.GET("/tables", panelHandler.Tables)
	panelAuth.GET("/stats", panelHandler.Stats)
	panelAuth.GET("/products", menuHandler.List)
	panelAuth.POST("/products", menuHandler.Create)
	panelAuth.PUT("/products/:id", menuHandler.Update)
	panelAuth.DELETE("/products/:id", menuHandler.Delete)

	return engine
}
