package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tilbury/quoteworks/internal"
	"github.com/tilbury/quoteworks/internal/email"
	"github.com/tilbury/quoteworks/internal/events"
	"github.com/tilbury/quoteworks/internal/pdf"
	"github.com/tilbury/quoteworks/internal/postgres"
	"github.com/tilbury/quoteworks/internal/telemetry"
	"github.com/tilbury/quoteworks/internal/worker"
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

	// Initialize pgx connection pool. The server owns migrations; the worker
	// only reads finalized quotations.
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	quotationStore := postgres.NewQuotationService(pool)

	// Connect to NATS
	logger.Info("Connecting to NATS...", "url", cfg.NatsUrl)
	nc, err := events.Connect(cfg.NatsUrl, "quoteworks-worker")
	if err != nil {
		return fmt.Errorf("NATS connection failed: %w", err)
	}
	defer nc.Close()
	logger.Info("NATS connection established")

	// PDF renderer
	renderer := pdf.NewRenderer(pdf.Company{
		Name:    cfg.Company.Name,
		Phone:   cfg.Company.Phone,
		Email:   cfg.Company.Email,
		Address: cfg.Company.Address,
		ABN:     cfg.Company.ABN,
	})

	// Email delivery
	sender := email.NewSMTPSender(&email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)
	emailService, err := email.NewService(sender, cfg.Email.From, cfg.Email.FromName)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	metrics := telemetry.NewBusinessMetrics("quoteworks")

	w := worker.NewWorker(
		nc,
		quotationStore,
		renderer,
		emailService,
		metrics,
		worker.Config{CompanyName: cfg.Company.Name},
		logger,
	)

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
