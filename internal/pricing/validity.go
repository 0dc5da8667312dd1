package pricing

import (
	"fmt"

	"github.com/tilbury/quoteworks/internal/domain"
)

// InvalidReason classifies why a quote line has no usable price.
type InvalidReason string

const (
	// ReasonProductNotFound means the line references a product id absent
	// from the catalog snapshot.
	ReasonProductNotFound InvalidReason = "product_not_found"

	// ReasonMatrixEmpty means the product is matrix priced but has no matrix
	// entries configured at all.
	ReasonMatrixEmpty InvalidReason = "matrix_empty"

	// ReasonMatrixNoMatch means the matrix has entries but none exactly
	// matches the line's width and height.
	ReasonMatrixNoMatch InvalidReason = "matrix_no_match"

	// ReasonNoBasePrice means a non-matrix product has no positive base
	// price configured in the catalog.
	ReasonNoBasePrice InvalidReason = "no_base_price"
)

// InvalidProduct reports one quote line excluded from all pricing aggregates.
type InvalidProduct struct {
	// Index is the line's position in the submitted product list.
	Index     int           `json:"index"`
	ProductID int64         `json:"product_id"`
	Reason    InvalidReason `json:"reason"`
	Message   string        `json:"message"`
}

// CheckPricing is the pricing-validity gate. It returns nil when the line has
// a usable price, otherwise a report describing why it does not.
//
// The gate inspects the catalog's stored configuration only: a custom price
// override on the line does not rescue a product whose catalog entry cannot
// price it.
func CheckPricing(index int, line domain.QuoteProduct, catalog *Catalog) *InvalidProduct {
	product, ok := catalog.Product(line.ProductID)
	if !ok {
		return &InvalidProduct{
			Index:     index,
			ProductID: line.ProductID,
			Reason:    ReasonProductNotFound,
			Message:   fmt.Sprintf("product %d is not in the catalog", line.ProductID),
		}
	}

	if product.PriceType == domain.PriceTypeMatrix {
		table, ok := catalog.tables[line.ProductID]
		if !ok || table.Empty() {
			return &InvalidProduct{
				Index:     index,
				ProductID: line.ProductID,
				Reason:    ReasonMatrixEmpty,
				Message:   fmt.Sprintf("%s has no price matrix configured", product.Name),
			}
		}
		if _, ok := table.Price(line.Width, line.Height); !ok {
			return &InvalidProduct{
				Index:     index,
				ProductID: line.ProductID,
				Reason:    ReasonMatrixNoMatch,
				Message: fmt.Sprintf("%s has no matrix price for %g x %g m",
					product.Name, line.Width, line.Height),
			}
		}
		return nil
	}

	if product.BasePrice <= 0 {
		return &InvalidProduct{
			Index:     index,
			ProductID: line.ProductID,
			Reason:    ReasonNoBasePrice,
			Message:   fmt.Sprintf("%s has no base price configured", product.Name),
		}
	}

	return nil
}

// IsPricingValid reports whether a quote line has a usable price.
func IsPricingValid(line domain.QuoteProduct, catalog *Catalog) bool {
	return CheckPricing(0, line, catalog) == nil
}

// InvalidProducts returns the invalid-pricing report for a product list.
// Callers surface this to the user; the aggregate engine independently skips
// the same lines.
func InvalidProducts(products []domain.QuoteProduct, catalog *Catalog) []InvalidProduct {
	var invalid []InvalidProduct
	for i, line := range products {
		if report := CheckPricing(i, line, catalog); report != nil {
			invalid = append(invalid, *report)
		}
	}
	return invalid
}
