package pricing

import "github.com/tilbury/quoteworks/internal/domain"

// dimensionKey is the composite lookup key for a price table. Matching is
// exact floating-point equality on both dimensions; there is no rounding,
// tolerance band, or interpolation between entries.
type dimensionKey struct {
	width  float64
	height float64
}

// PriceTable is a rectangular price table: a keyed lookup from an exact
// width/height pair to a price. It backs matrix-priced products.
type PriceTable struct {
	prices map[dimensionKey]float64
}

// NewPriceTable builds a price table from catalog matrix entries. When the
// same dimensions appear twice the last entry wins.
func NewPriceTable(entries []domain.MatrixEntry) *PriceTable {
	t := &PriceTable{prices: make(map[dimensionKey]float64, len(entries))}
	for _, e := range entries {
		t.prices[dimensionKey{width: e.Width, height: e.Height}] = e.Price
	}
	return t
}

// Price returns the price for the exact width/height pair and whether an
// entry exists.
func (t *PriceTable) Price(width, height float64) (float64, bool) {
	price, ok := t.prices[dimensionKey{width: width, height: height}]
	return price, ok
}

// Empty reports whether the table has no entries at all.
func (t *PriceTable) Empty() bool {
	return len(t.prices) == 0
}

// ResolveMatrixPrice resolves the matrix price for a quote line against a
// catalog product. Returns 0 when no entry matches the line's exact
// dimensions.
func ResolveMatrixPrice(line domain.QuoteProduct, product domain.Product) float64 {
	price, ok := NewPriceTable(product.PriceMatrix).Price(line.Width, line.Height)
	if !ok {
		return 0
	}
	return price
}
