package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tilbury/quoteworks/internal"
	"github.com/tilbury/quoteworks/internal/events"
	"github.com/tilbury/quoteworks/internal/handler"
	"github.com/tilbury/quoteworks/internal/pdf"
	"github.com/tilbury/quoteworks/internal/postgres"
	"github.com/tilbury/quoteworks/internal/router"
	"github.com/tilbury/quoteworks/internal/service"
	"github.com/tilbury/quoteworks/internal/telemetry"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application queries
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	catalogStore := postgres.NewCatalogService(pool)
	tileStore := postgres.NewTileCatalogService(pool)
	quotationStore := postgres.NewQuotationService(pool)

	// Connect to NATS for quote delivery events
	logger.Info("Connecting to NATS...", "url", cfg.NatsUrl)
	nc, err := events.Connect(cfg.NatsUrl, "quoteworks-server")
	if err != nil {
		return fmt.Errorf("NATS connection failed: %w", err)
	}
	defer nc.Close()
	publisher := events.NewPublisher(nc)
	logger.Info("NATS connection established")

	// Business metrics
	metrics := telemetry.NewBusinessMetrics("quoteworks")

	// Quote service
	quoteService := service.NewQuoteService(
		catalogStore,
		tileStore,
		quotationStore,
		publisher,
		metrics,
		logger,
	)

	// PDF renderer
	renderer := pdf.NewRenderer(pdf.Company{
		Name:    cfg.Company.Name,
		Phone:   cfg.Company.Phone,
		Email:   cfg.Company.Email,
		Address: cfg.Company.Address,
		ABN:     cfg.Company.ABN,
	})

	// HTTP routes
	e := router.New(router.Handlers{
		Catalog:     handler.NewCatalogHandler(catalogStore, logger),
		TileCatalog: handler.NewTileCatalogHandler(tileStore, logger),
		Quote:       handler.NewQuoteHandler(quoteService, quotationStore, renderer, logger),
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
