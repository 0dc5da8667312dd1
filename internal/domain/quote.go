package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// WINDOW-TREATMENT QUOTE LINE TYPES
// =============================================================================

// QuoteProduct is one product selection in a window-treatment quote.
type QuoteProduct struct {
	ProductID int64

	// Width and Height are in meters. Only meaningful for sqm and matrix
	// priced products.
	Width  float64
	Height float64

	Quantity int

	// CustomPrice overrides the catalog base price when greater than zero.
	CustomPrice float64

	Color           string
	ControlType     string
	Installation    bool
	SpecialFeatures string
}

// AddOnUnitType determines how an add-on's cost is computed.
type AddOnUnitType string

const (
	AddOnUnitEach   AddOnUnitType = "each"
	AddOnUnitSqm    AddOnUnitType = "sqm"
	AddOnUnitLinear AddOnUnitType = "linear"
)

// AddOn is an accessory line (pelmets, motorisation, etc). Add-ons are never
// subject to markup.
type AddOn struct {
	Description string
	UnitType    AddOnUnitType
	UnitPrice   float64
	Quantity    float64

	// Width and Height apply to sqm add-ons; Length applies to linear ones.
	Width  float64
	Height float64
	Length float64
}

// CustomService is a flat-priced service line with no quantity or unit logic.
// Shared by both quoting domains.
type CustomService struct {
	Description string
	Price       float64
}

// =============================================================================
// QUOTE-LEVEL CONFIGURATION
// =============================================================================

// MarkupType selects between percentage and fixed-amount markup.
type MarkupType string

const (
	MarkupPercentage MarkupType = "percentage"
	MarkupFixed      MarkupType = "fixed"
)

// MarkupConfig controls markup on product lines. Markup never applies to
// add-ons or custom services.
type MarkupConfig struct {
	Enabled bool
	Type    MarkupType
	Value   float64
}

// DiscountType selects between percentage and fixed-amount discount.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// DiscountConfig controls the quote-level discount. The discount is applied
// to the post-GST total; a fixed discount is capped at that total.
type DiscountConfig struct {
	Type  DiscountType
	Value float64
}

// GSTConfig controls GST on the window-treatment quote. GST is computed per
// line on post-markup totals.
type GSTConfig struct {
	Enabled bool
	Rate    float64 // percent
}

// CurtainsQuoteState is the full selection snapshot the engine consumes.
type CurtainsQuoteState struct {
	Products       []QuoteProduct
	AddOns         []AddOn
	CustomServices []CustomService

	Markup   MarkupConfig
	Discount DiscountConfig
	GST      GSTConfig
}

// =============================================================================
// QUOTATION RECORD
// =============================================================================

// QuoteDomain identifies which product domain a quotation belongs to.
type QuoteDomain string

const (
	QuoteDomainCurtains QuoteDomain = "curtains"
	QuoteDomainTile     QuoteDomain = "tile"
)

// QuotationStatus is the lifecycle state of a persisted quotation.
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusFinalized QuotationStatus = "finalized"
)

// Customer holds the customer details captured by the quote form.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// QuotationLine is one itemized row of a finalized quotation. Only lines that
// passed the pricing validity gate are ever persisted.
type QuotationLine struct {
	Description string
	Quantity    float64
	Unit        string
	UnitPrice   float64
	LineTotal   float64
}

// Quotation is a persisted, finalized quote. The pricing snapshot is stored
// verbatim as computed by the engine; it is never recomputed from rows.
type Quotation struct {
	ID       uuid.UUID
	Number   string
	Domain   QuoteDomain
	Status   QuotationStatus
	Customer Customer

	Lines []QuotationLine

	// PricingJSON is the engine's full breakdown, serialized. Embedded
	// verbatim so the PDF and email renderers see exactly what the UI saw.
	PricingJSON []byte

	Subtotal   float64
	TotalGST   float64
	Discount   float64
	GrandTotal float64

	CreatedAt time.Time
}

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// QuotationService persists and retrieves finalized quotations.
type QuotationService interface {
	// CreateQuotation stores a finalized quotation.
	CreateQuotation(ctx context.Context, q *Quotation) error

	// GetQuotation retrieves a quotation with its lines.
	GetQuotation(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// ListQuotations returns quotations newest first.
	ListQuotations(ctx context.Context, limit, offset int) ([]Quotation, error)

	// NextQuotationNumber reserves the next sequential quotation number for
	// the given month.
	NextQuotationNumber(ctx context.Context, yearMonth string) (int, error)
}

// Quotation-specific errors.
var (
	ErrQuotationNotFound = &Error{Code: ENOTFOUND, Message: "Quotation not found"}
	ErrDuplicateNumber   = &Error{Code: ECONFLICT, Message: "Quotation number already exists"}
)
