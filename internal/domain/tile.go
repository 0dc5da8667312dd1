package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// =============================================================================
// TILE CATALOG TYPES
// =============================================================================

// SizeKind discriminates how a tile size was configured upstream.
// Pricing reads only Size.Multiplier regardless of kind; the kind is kept for
// display and catalog management.
type SizeKind string

const (
	SizeKindLinearMeter SizeKind = "linear_meter"
	SizeKindHeightWidth SizeKind = "height_width"
	SizeKindCustom      SizeKind = "custom"
)

// Material is a tile material priced per unit of area.
type Material struct {
	ID        int64
	Name      string
	BasePrice float64 // per square foot
	CreatedAt pgtype.Timestamptz
}

// Style scales material cost multiplicatively. A multiplier of 1 is neutral.
type Style struct {
	ID         int64
	Name       string
	Multiplier float64
}

// Size scales material cost multiplicatively. Every size variant exposes an
// effective multiplier; fixed-price variants are converted to a multiplier at
// catalog import time and sizes without one default to 1.
type Size struct {
	ID         int64
	Name       string
	Kind       SizeKind
	Multiplier float64
}

// Finish adds a per-area premium on top of the multiplied material cost.
type Finish struct {
	ID      int64
	Name    string
	Premium float64 // per square foot, additive
}

// TileCatalog is an immutable snapshot of the tile reference data for one
// calculation pass.
type TileCatalog struct {
	Materials []Material
	Styles    []Style
	Sizes     []Size
	Finishes  []Finish
}

// =============================================================================
// TILE QUOTE LINE TYPES
// =============================================================================

// MaterialItem is one tile selection in a quote. Reference fields are nil
// until the user has picked them; an item missing any selection or a positive
// area contributes zero cost and is not an error.
type MaterialItem struct {
	MaterialID    *int64
	StyleID       *int64
	SizeID        *int64
	FinishID      *int64
	SquareFootage float64
}

// CustomItem is a user-defined tile line priced as price x quantity.
type CustomItem struct {
	Description string
	Price       float64
	Quantity    float64
	Unit        string
}

// TileDiscountConfig is the tile domain's percentage-only discount.
type TileDiscountConfig struct {
	Enabled bool
	Value   float64 // percent of the full subtotal
}

// TileGSTConfig applies GST independently to each cost bucket.
type TileGSTConfig struct {
	Enabled    bool
	Percentage float64
}

// TileQuoteState is the full tile selection snapshot the engine consumes.
type TileQuoteState struct {
	Items          []MaterialItem
	CustomItems    []CustomItem
	CustomServices []CustomService

	// Markup is a percentage applied to material cost only. Zero or negative
	// means no markup.
	Markup   float64
	Discount TileDiscountConfig
	GST      TileGSTConfig
}

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// TileCatalogService provides access to the tile reference data.
type TileCatalogService interface {
	// GetCatalog returns the full tile catalog snapshot.
	GetCatalog(ctx context.Context) (*TileCatalog, error)

	// CreateMaterial adds a material to the catalog.
	CreateMaterial(ctx context.Context, name string, basePrice float64) (*Material, error)

	// CreateStyle adds a style to the catalog.
	CreateStyle(ctx context.Context, name string, multiplier float64) (*Style, error)

	// CreateSize adds a size to the catalog. A non-positive multiplier is
	// stored as 1 (neutral).
	CreateSize(ctx context.Context, name string, kind SizeKind, multiplier float64) (*Size, error)

	// CreateFinish adds a finish to the catalog.
	CreateFinish(ctx context.Context, name string, premium float64) (*Finish, error)
}
