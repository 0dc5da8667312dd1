package pricing

import "github.com/tilbury/quoteworks/internal/domain"

// =============================================================================
// PER-LINE COST FUNCTIONS
// =============================================================================

// OriginalBasePrice returns the pre-markup unit price for a product line.
// A positive custom price on the line overrides the catalog verbatim. For
// matrix products the price comes from the exact-match table; otherwise the
// catalog base price is used. Lines that cannot be priced return 0.
func OriginalBasePrice(line domain.QuoteProduct, catalog *Catalog) float64 {
	if line.CustomPrice > 0 {
		return line.CustomPrice
	}

	product, ok := catalog.Product(line.ProductID)
	if !ok {
		return 0
	}

	if product.PriceType == domain.PriceTypeMatrix {
		price, ok := catalog.matrixPrice(line.ProductID, line.Width, line.Height)
		if !ok {
			return 0
		}
		return price
	}

	return product.BasePrice
}

// EffectiveBasePrice returns the unit price after markup. Markup is skipped
// when disabled, when the original price is not positive, or when the markup
// value itself is not positive.
func EffectiveBasePrice(line domain.QuoteProduct, catalog *Catalog, markup domain.MarkupConfig) float64 {
	original := OriginalBasePrice(line, catalog)
	if !markup.Enabled || original <= 0 || markup.Value <= 0 {
		return original
	}

	switch markup.Type {
	case domain.MarkupPercentage:
		return original * (1 + markup.Value/100)
	case domain.MarkupFixed:
		return original + markup.Value
	default:
		return original
	}
}

// BillableUnits returns the multiplier between a line's unit price and its
// total, applying the catalog's minimum quantity rule per price type:
//
//	sqm:    max(width x height, minimum) x quantity
//	each:   max(quantity, minimum)
//	matrix: quantity (the matrix price is already per unit for that size)
func BillableUnits(line domain.QuoteProduct, catalog *Catalog) float64 {
	qty := float64(line.Quantity)

	product, ok := catalog.Product(line.ProductID)
	if !ok {
		return qty
	}

	switch product.PriceType {
	case domain.PriceTypeSqm:
		return FloorAt(line.Width*line.Height, product.MinimumQty) * qty
	case domain.PriceTypeEach:
		return FloorAt(qty, product.MinimumQty)
	default:
		return qty
	}
}

// ProductLineTotal is the pre-markup, pre-GST total for a product line.
func ProductLineTotal(line domain.QuoteProduct, catalog *Catalog) float64 {
	return OriginalBasePrice(line, catalog) * BillableUnits(line, catalog)
}

// ProductLineTotalAfterMarkup is the post-markup, pre-GST total.
func ProductLineTotalAfterMarkup(line domain.QuoteProduct, catalog *Catalog, markup domain.MarkupConfig) float64 {
	return EffectiveBasePrice(line, catalog, markup) * BillableUnits(line, catalog)
}

// ProductLineGST is the GST owed on a product line. GST is always computed on
// the post-markup total, never the original one.
func ProductLineGST(line domain.QuoteProduct, catalog *Catalog, markup domain.MarkupConfig, gst domain.GSTConfig) float64 {
	if !gst.Enabled {
		return 0
	}
	return PercentOf(ProductLineTotalAfterMarkup(line, catalog, markup), gst.Rate)
}

// ProductLineTotalWithGST is the final line total including GST.
func ProductLineTotalWithGST(line domain.QuoteProduct, catalog *Catalog, markup domain.MarkupConfig, gst domain.GSTConfig) float64 {
	total := ProductLineTotalAfterMarkup(line, catalog, markup)
	if !gst.Enabled {
		return total
	}
	return total * (1 + gst.Rate/100)
}

// AddOnCost is the pre-GST cost of an add-on line. Add-ons are never subject
// to markup.
func AddOnCost(a domain.AddOn) float64 {
	switch a.UnitType {
	case domain.AddOnUnitSqm:
		return a.UnitPrice * a.Quantity * a.Width * a.Height
	case domain.AddOnUnitLinear:
		return a.UnitPrice * a.Quantity * a.Length
	default:
		return a.UnitPrice * a.Quantity
	}
}

// AddOnGST is the GST owed on an add-on line.
func AddOnGST(a domain.AddOn, gst domain.GSTConfig) float64 {
	if !gst.Enabled {
		return 0
	}
	return PercentOf(AddOnCost(a), gst.Rate)
}

// AddOnTotalWithGST is the final add-on total including GST.
func AddOnTotalWithGST(a domain.AddOn, gst domain.GSTConfig) float64 {
	if !gst.Enabled {
		return AddOnCost(a)
	}
	return AddOnCost(a) * (1 + gst.Rate/100)
}

// ServiceGST is the GST owed on a flat-priced custom service.
func ServiceGST(s domain.CustomService, gst domain.GSTConfig) float64 {
	if !gst.Enabled {
		return 0
	}
	return PercentOf(s.Price, gst.Rate)
}

// =============================================================================
// AGGREGATE ENGINE
// =============================================================================

// CurtainsBreakdown is the full pricing result for a window-treatment quote.
// Each field depends on the ones above it; the engine evaluates them strictly
// in declaration order.
type CurtainsBreakdown struct {
	// SubtotalBeforeMarkup sums valid product, add-on, and service base
	// totals before markup and GST.
	SubtotalBeforeMarkup float64 `json:"subtotal_before_markup"`

	// TotalMarkup is the markup collected across valid product lines.
	TotalMarkup float64 `json:"total_markup"`

	// SubtotalAfterMarkup replaces product totals with post-markup totals.
	SubtotalAfterMarkup float64 `json:"subtotal_after_markup"`

	// TotalGST sums per-line GST, all computed on post-markup bases.
	TotalGST float64 `json:"total_gst"`

	// DiscountAmount is the discount applied to the post-GST sum. A fixed
	// discount never exceeds the sum it applies to.
	DiscountAmount float64 `json:"discount_amount"`

	// GrandTotal = SubtotalAfterMarkup + TotalGST - DiscountAmount.
	GrandTotal float64 `json:"grand_total"`

	// InvalidProducts lists the lines excluded from every figure above.
	InvalidProducts []InvalidProduct `json:"invalid_products,omitempty"`
}

// CalculateCurtains runs the full window-treatment aggregate engine over a
// quote-state snapshot. Lines failing the pricing-validity gate contribute
// nothing to any figure and are reported in InvalidProducts.
func CalculateCurtains(state domain.CurtainsQuoteState, catalog *Catalog) CurtainsBreakdown {
	var b CurtainsBreakdown

	valid := make([]domain.QuoteProduct, 0, len(state.Products))
	for i, line := range state.Products {
		if report := CheckPricing(i, line, catalog); report != nil {
			b.InvalidProducts = append(b.InvalidProducts, *report)
			continue
		}
		valid = append(valid, line)
	}

	for _, line := range valid {
		units := BillableUnits(line, catalog)
		original := OriginalBasePrice(line, catalog)
		effective := EffectiveBasePrice(line, catalog, state.Markup)

		b.SubtotalBeforeMarkup += original * units
		b.TotalMarkup += (effective - original) * units
		b.SubtotalAfterMarkup += effective * units
		b.TotalGST += ProductLineGST(line, catalog, state.Markup, state.GST)
	}

	addOnTotal := SumBy(state.AddOns, AddOnCost)
	serviceTotal := SumBy(state.CustomServices, func(s domain.CustomService) float64 { return s.Price })

	b.SubtotalBeforeMarkup += addOnTotal + serviceTotal
	b.SubtotalAfterMarkup += addOnTotal + serviceTotal
	b.TotalGST += SumBy(state.AddOns, func(a domain.AddOn) float64 { return AddOnGST(a, state.GST) })
	b.TotalGST += SumBy(state.CustomServices, func(s domain.CustomService) float64 { return ServiceGST(s, state.GST) })

	b.DiscountAmount = curtainsDiscount(state.Discount, b.SubtotalAfterMarkup+b.TotalGST)
	b.GrandTotal = b.SubtotalAfterMarkup + b.TotalGST - b.DiscountAmount

	return b
}

// curtainsDiscount computes the discount on the post-GST sum. Non-positive
// discount values have no effect; a fixed discount is capped at the sum so
// the discount alone can never push the grand total negative.
func curtainsDiscount(d domain.DiscountConfig, postGSTSum float64) float64 {
	if d.Value <= 0 {
		return 0
	}

	switch d.Type {
	case domain.DiscountPercentage:
		return PercentOf(postGSTSum, d.Value)
	case domain.DiscountFixed:
		return CapAt(d.Value, postGSTSum)
	default:
		return 0
	}
}
