// Package router assembles the HTTP server from the individual handlers.
package router

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tilbury/quoteworks/internal/handler"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Catalog     *handler.CatalogHandler
	TileCatalog *handler.TileCatalogHandler
	Quote       *handler.QuoteHandler
}

// New builds the echo instance with middleware, health and metrics
// endpoints, and all API routes mounted.
func New(h Handlers, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = handler.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
				logger.Error("request", attrs...)
			} else {
				logger.Info("request", attrs...)
			}
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	h.Catalog.RegisterRoutes(api.Group("/catalog"))
	h.TileCatalog.RegisterRoutes(api.Group("/tile/catalog"))
	h.Quote.RegisterRoutes(api.Group("/quotes"))

	return e
}
