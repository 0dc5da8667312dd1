// Package worker delivers finalized quotations to customers in the
// background. It consumes quote.finalized events, renders the quotation PDF,
// and emails it.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/tilbury/quoteworks/internal/domain"
	"github.com/tilbury/quoteworks/internal/email"
	"github.com/tilbury/quoteworks/internal/events"
	"github.com/tilbury/quoteworks/internal/pdf"
	"github.com/tilbury/quoteworks/internal/telemetry"
)

const jobTypeDelivery = "quote_delivery"

// Config holds worker configuration.
type Config struct {
	// WorkerID uniquely identifies this worker instance.
	WorkerID string

	// JobTimeout bounds the processing of a single event.
	JobTimeout time.Duration

	// CompanyName appears in the delivery email.
	CompanyName string
}

// Worker processes quotation delivery events.
type Worker struct {
	config     Config
	conn       *nats.Conn
	quotations domain.QuotationService
	renderer   *pdf.Renderer
	email      *email.Service
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger

	sub *nats.Subscription
}

// NewWorker creates a delivery worker. metrics may be nil in tests.
func NewWorker(
	conn *nats.Conn,
	quotations domain.QuotationService,
	renderer *pdf.Renderer,
	emailService *email.Service,
	metrics *telemetry.BusinessMetrics,
	config Config,
	logger *slog.Logger,
) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.JobTimeout == 0 {
		config.JobTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		config:     config,
		conn:       conn,
		quotations: quotations,
		renderer:   renderer,
		email:      emailService,
		metrics:    metrics,
		logger:     logger,
	}
}

// Start subscribes to the delivery queue and blocks until the context is
// cancelled. Queue subscription means multiple worker instances share the
// load without duplicate deliveries.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"subject", events.SubjectQuoteFinalized,
		"queue", events.QueueDelivery,
	)

	sub, err := w.conn.QueueSubscribe(events.SubjectQuoteFinalized, events.QueueDelivery, func(msg *nats.Msg) {
		w.handleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.SubjectQuoteFinalized, err)
	}
	w.sub = sub

	<-ctx.Done()

	w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
	if err := sub.Drain(); err != nil {
		w.logger.Error("failed to drain subscription", "error", err)
	}
	return ctx.Err()
}

func (w *Worker) handleMessage(ctx context.Context, msg *nats.Msg) {
	start := time.Now()

	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	var event events.QuoteFinalized
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		w.logger.Error("failed to decode quote.finalized event", "error", err)
		w.recordFailure(start)
		return
	}

	if err := w.deliver(jobCtx, event); err != nil {
		w.logger.Error("quotation delivery failed",
			"number", event.Number, "error", err)
		w.recordFailure(start)
		return
	}

	if w.metrics != nil {
		w.metrics.JobsProcessed.WithLabelValues(jobTypeDelivery).Inc()
		w.metrics.JobDuration.WithLabelValues(jobTypeDelivery).Observe(time.Since(start).Seconds())
	}
}

// deliver renders and emails one finalized quotation.
func (w *Worker) deliver(ctx context.Context, event events.QuoteFinalized) error {
	q, err := w.quotations.GetQuotation(ctx, event.QuotationID)
	if err != nil {
		return fmt.Errorf("load quotation %s: %w", event.Number, err)
	}

	if q.Customer.Email == "" {
		w.logger.Info("quotation has no customer email, skipping delivery",
			"number", q.Number)
		return nil
	}

	doc, err := w.renderer.Render(q)
	if err != nil {
		return fmt.Errorf("render PDF for %s: %w", q.Number, err)
	}
	if w.metrics != nil {
		w.metrics.PDFsRendered.WithLabelValues(string(q.Domain)).Inc()
	}

	data := email.QuotationEmail{
		QuoteNumber:  q.Number,
		CustomerName: q.Customer.Name,
		CompanyName:  w.config.CompanyName,
		QuoteDate:    q.CreatedAt,
		Subtotal:     q.Subtotal,
		TotalGST:     q.TotalGST,
		Discount:     q.Discount,
		GrandTotal:   q.GrandTotal,
	}
	for _, l := range q.Lines {
		data.Lines = append(data.Lines, email.QuotationEmailLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			LineTotal:   l.LineTotal,
		})
	}

	if err := w.email.SendQuotation(ctx, q.Customer.Email, data, doc); err != nil {
		if w.metrics != nil {
			w.metrics.EmailsFailed.Inc()
		}
		return fmt.Errorf("email quotation %s: %w", q.Number, err)
	}
	if w.metrics != nil {
		w.metrics.EmailsSent.Inc()
	}

	w.logger.Info("quotation delivered",
		"number", q.Number,
		"to", q.Customer.Email,
	)
	return nil
}

func (w *Worker) recordFailure(start time.Time) {
	if w.metrics != nil {
		w.metrics.JobsFailed.WithLabelValues(jobTypeDelivery).Inc()
		w.metrics.JobDuration.WithLabelValues(jobTypeDelivery).Observe(time.Since(start).Seconds())
	}
}
