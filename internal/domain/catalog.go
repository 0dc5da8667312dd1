package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// =============================================================================
// WINDOW-TREATMENT CATALOG TYPES
// =============================================================================

// PriceType determines how a product's price is applied to a quote line.
type PriceType string

const (
	// PriceTypeSqm prices by billable area (width x height in meters).
	PriceTypeSqm PriceType = "sqm"
	// PriceTypeEach prices per unit.
	PriceTypeEach PriceType = "each"
	// PriceTypeMatrix prices by exact width/height lookup in the product's
	// price matrix. No interpolation is ever performed.
	PriceTypeMatrix PriceType = "matrix"
)

// ProductStatus represents the lifecycle state of a catalog product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// MatrixEntry is one exact-match price point in a product's price matrix.
// Width and height are in meters; a quote line matches an entry only when
// both dimensions are exactly equal.
type MatrixEntry struct {
	Width  float64
	Height float64
	Price  float64
}

// Product is a window-treatment catalog product (curtain, blind, track, etc).
type Product struct {
	ID         int64
	CategoryID int64
	Name       string
	Description pgtype.Text

	PriceType PriceType
	// BasePrice is the unit price used when PriceType is sqm or each.
	// Ignored for matrix-priced products.
	BasePrice float64
	// MinimumQty is the minimum billable quantity (each) or area (sqm).
	MinimumQty float64
	// PriceMatrix holds exact-match prices for matrix-priced products.
	PriceMatrix []MatrixEntry

	Status    ProductStatus
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// Category groups catalog products for display.
type Category struct {
	ID          int64
	Name        string
	Description pgtype.Text
	SortOrder   int32
}

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// CatalogService provides access to the window-treatment product catalog.
type CatalogService interface {
	// ListProducts returns all active products with their price matrices.
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct retrieves a product by ID (includes archived).
	GetProduct(ctx context.Context, id int64) (*Product, error)

	// ListCategories returns all categories ordered by sort order.
	ListCategories(ctx context.Context) ([]Category, error)

	// CreateProduct creates a new product, including any matrix entries.
	CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error)

	// UpdateProduct updates an existing product.
	UpdateProduct(ctx context.Context, id int64, params UpdateProductParams) error

	// ReplaceMatrix replaces the full price matrix of a matrix-priced product.
	ReplaceMatrix(ctx context.Context, productID int64, entries []MatrixEntry) error

	// ArchiveProduct soft-deletes a product (sets status to archived).
	ArchiveProduct(ctx context.Context, id int64) error
}

// CreateProductParams contains parameters for creating a product.
type CreateProductParams struct {
	CategoryID  int64
	Name        string
	Description pgtype.Text
	PriceType   PriceType
	BasePrice   float64
	MinimumQty  float64
	PriceMatrix []MatrixEntry
}

// UpdateProductParams contains parameters for updating a product.
// Pointer fields indicate optional updates (nil = no change).
type UpdateProductParams struct {
	CategoryID  *int64
	Name        *string
	Description pgtype.Text
	PriceType   *PriceType
	BasePrice   *float64
	MinimumQty  *float64
}

// =============================================================================
// DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}

	ErrInvalidPriceType = &Error{Code: EINVALID, Message: "Invalid price type"}
)
