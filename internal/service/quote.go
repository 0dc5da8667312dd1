package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tilbury/quoteworks/internal/domain"
	"github.com/tilbury/quoteworks/internal/events"
	"github.com/tilbury/quoteworks/internal/pricing"
	"github.com/tilbury/quoteworks/internal/telemetry"
)

// EventPublisher announces finalized quotations for asynchronous delivery.
type EventPublisher interface {
	PublishQuoteFinalized(event events.QuoteFinalized) error
}

// QuoteService orchestrates pricing previews and quotation finalization.
// The pricing engines themselves are pure; this service supplies them with
// catalog snapshots and handles persistence and event publication.
type QuoteService struct {
	catalog    domain.CatalogService
	tile       domain.TileCatalogService
	quotations domain.QuotationService
	publisher  EventPublisher
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger

	now func() time.Time
}

// NewQuoteService creates a quote service. publisher and metrics may be nil
// in tests.
func NewQuoteService(
	catalog domain.CatalogService,
	tile domain.TileCatalogService,
	quotations domain.QuotationService,
	publisher EventPublisher,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
) *QuoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteService{
		catalog:    catalog,
		tile:       tile,
		quotations: quotations,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// =============================================================================
// PREVIEWS
// =============================================================================

// PreviewCurtains computes the full pricing breakdown for the current
// window-treatment quote state. Called on every form change; it never fails
// on invalid lines, it reports them.
func (s *QuoteService) PreviewCurtains(ctx context.Context, state domain.CurtainsQuoteState) (*pricing.CurtainsBreakdown, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	breakdown := pricing.CalculateCurtains(state, pricing.NewCatalog(products))

	if s.metrics != nil {
		s.metrics.QuotePreviews.WithLabelValues(string(domain.QuoteDomainCurtains)).Inc()
		for _, inv := range breakdown.InvalidProducts {
			s.metrics.InvalidPricingLines.WithLabelValues(string(inv.Reason)).Inc()
		}
	}

	return &breakdown, nil
}

// PreviewTile computes the full pricing breakdown for the current tile quote
// state.
func (s *QuoteService) PreviewTile(ctx context.Context, state domain.TileQuoteState) (*pricing.TileBreakdown, error) {
	cat, err := s.tile.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	breakdown := pricing.CalculateTile(state, pricing.NewTileLookup(*cat))

	if s.metrics != nil {
		s.metrics.QuotePreviews.WithLabelValues(string(domain.QuoteDomainTile)).Inc()
	}

	return &breakdown, nil
}

// =============================================================================
// FINALIZATION
// =============================================================================

// FinalizeCurtainsParams carries everything needed to finalize a
// window-treatment quotation.
type FinalizeCurtainsParams struct {
	Customer domain.Customer
	State    domain.CurtainsQuoteState
}

// FinalizeCurtains recomputes pricing server-side, rejects quotes that still
// contain invalid-priced lines, and persists the quotation with the engine's
// breakdown embedded verbatim. Client-supplied totals are never trusted.
func (s *QuoteService) FinalizeCurtains(ctx context.Context, params FinalizeCurtainsParams) (*domain.Quotation, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	catalog := pricing.NewCatalog(products)

	breakdown := pricing.CalculateCurtains(params.State, catalog)
	if len(breakdown.InvalidProducts) > 0 {
		return nil, domain.Invalid("quotation.finalize",
			fmt.Sprintf("quote contains %d lines without a valid price: %s",
				len(breakdown.InvalidProducts), breakdown.InvalidProducts[0].Message))
	}

	lines := curtainsLines(params.State, catalog)

	q, err := s.persist(ctx, domain.QuoteDomainCurtains, params.Customer, lines, quotationTotals{
		subtotal:   breakdown.SubtotalAfterMarkup,
		totalGST:   breakdown.TotalGST,
		discount:   breakdown.DiscountAmount,
		grandTotal: breakdown.GrandTotal,
	}, breakdown)
	if err != nil {
		return nil, err
	}

	return q, nil
}

// FinalizeTileParams carries everything needed to finalize a tile quotation.
type FinalizeTileParams struct {
	Customer domain.Customer
	State    domain.TileQuoteState
}

// FinalizeTile recomputes tile pricing server-side and persists the
// quotation. Incomplete material items cost nothing and are not persisted as
// lines.
func (s *QuoteService) FinalizeTile(ctx context.Context, params FinalizeTileParams) (*domain.Quotation, error) {
	cat, err := s.tile.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	lookup := pricing.NewTileLookup(*cat)

	breakdown := pricing.CalculateTile(params.State, lookup)

	lines := tileLines(params.State, *cat, lookup)

	q, err := s.persist(ctx, domain.QuoteDomainTile, params.Customer, lines, quotationTotals{
		subtotal:   breakdown.Subtotal,
		totalGST:   breakdown.TotalGST,
		discount:   breakdown.DiscountAmount,
		grandTotal: breakdown.FinalTotal,
	}, breakdown)
	if err != nil {
		return nil, err
	}

	return q, nil
}

type quotationTotals struct {
	subtotal   float64
	totalGST   float64
	discount   float64
	grandTotal float64
}

// persist assigns an identity and quotation number, stores the record, and
// announces it for delivery. Event publication is best-effort: a NATS outage
// must not lose an already-persisted quotation.
func (s *QuoteService) persist(
	ctx context.Context,
	quoteDomain domain.QuoteDomain,
	customer domain.Customer,
	lines []domain.QuotationLine,
	totals quotationTotals,
	breakdown any,
) (*domain.Quotation, error) {
	pricingJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, domain.Internal(err, "quotation.finalize", "failed to encode pricing breakdown")
	}

	now := s.now().UTC()
	number, err := s.nextNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	q := &domain.Quotation{
		ID:          uuid.New(),
		Number:      number,
		Domain:      quoteDomain,
		Status:      domain.QuotationStatusFinalized,
		Customer:    customer,
		Lines:       lines,
		PricingJSON: pricingJSON,
		Subtotal:    totals.subtotal,
		TotalGST:    totals.totalGST,
		Discount:    totals.discount,
		GrandTotal:  totals.grandTotal,
		CreatedAt:   now,
	}

	if err := s.quotations.CreateQuotation(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info("quotation finalized",
		"number", q.Number,
		"domain", q.Domain,
		"grand_total", q.GrandTotal,
	)

	if s.metrics != nil {
		s.metrics.QuotationsFinalized.WithLabelValues(string(quoteDomain)).Inc()
		s.metrics.QuotationValue.WithLabelValues(string(quoteDomain)).Observe(q.GrandTotal)
	}

	if s.publisher != nil {
		event := events.QuoteFinalized{
			QuotationID: q.ID,
			Number:      q.Number,
			Domain:      string(q.Domain),
			FinalizedAt: now,
		}
		if err := s.publisher.PublishQuoteFinalized(event); err != nil {
			s.logger.Error("failed to publish quote.finalized event",
				"number", q.Number, "error", err)
		}
	}

	return q, nil
}

// nextNumber formats the sequential quotation number, e.g. Q-202609-0042.
func (s *QuoteService) nextNumber(ctx context.Context, now time.Time) (string, error) {
	yearMonth := now.Format("200601")
	seq, err := s.quotations.NextQuotationNumber(ctx, yearMonth)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Q-%s-%04d", yearMonth, seq), nil
}
