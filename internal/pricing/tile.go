package pricing

import "github.com/tilbury/quoteworks/internal/domain"

// =============================================================================
// PER-ITEM MATERIAL COST
// =============================================================================

// MaterialItemCost is the cost of one tile selection. Items missing any of
// material, style, size, finish, or a positive area contribute zero; a
// half-filled item is a normal mid-entry state, not an error. Style and size
// multipliers of zero are treated as the neutral 1.
func MaterialItemCost(item domain.MaterialItem, catalog *TileLookup) float64 {
	if item.MaterialID == nil || item.StyleID == nil || item.SizeID == nil ||
		item.FinishID == nil || item.SquareFootage <= 0 {
		return 0
	}

	material, ok := catalog.materials[*item.MaterialID]
	if !ok {
		return 0
	}
	style, ok := catalog.styles[*item.StyleID]
	if !ok {
		return 0
	}
	size, ok := catalog.sizes[*item.SizeID]
	if !ok {
		return 0
	}
	finish, ok := catalog.finishes[*item.FinishID]
	if !ok {
		return 0
	}

	baseCost := item.SquareFootage * material.BasePrice *
		effectiveMultiplier(style.Multiplier) * effectiveMultiplier(size.Multiplier)
	finishCost := finish.Premium * item.SquareFootage

	return baseCost + finishCost
}

// effectiveMultiplier maps an unset multiplier to the neutral 1.
func effectiveMultiplier(m float64) float64 {
	if m <= 0 {
		return 1
	}
	return m
}

// CustomItemCost is price x quantity for a user-defined tile line.
func CustomItemCost(item domain.CustomItem) float64 {
	return item.Price * item.Quantity
}

// =============================================================================
// AGGREGATE ENGINE
// =============================================================================

// TileBreakdown is the full pricing result for a tile quote. Fields are
// evaluated strictly in declaration order.
//
// Unlike the window-treatment engine, GST here is computed per cost bucket on
// the pre-discount bucket value and added after the discount. Both orderings
// are deliberate, domain-specific contracts.
type TileBreakdown struct {
	// MaterialCost sums all material item costs.
	MaterialCost float64 `json:"material_cost"`

	// MarkupAmount applies the markup percentage to material cost only.
	MarkupAmount float64 `json:"markup_amount"`

	// TileTotal = MaterialCost + MarkupAmount.
	TileTotal float64 `json:"tile_total"`

	// CustomItemsCost sums price x quantity over custom items.
	CustomItemsCost float64 `json:"custom_items_cost"`

	// CustomServicesCost sums the flat service prices.
	CustomServicesCost float64 `json:"custom_services_cost"`

	// Subtotal = TileTotal + CustomItemsCost + CustomServicesCost.
	Subtotal float64 `json:"subtotal"`

	// DiscountAmount is the percentage discount on the full subtotal.
	DiscountAmount float64 `json:"discount_amount"`

	// AfterDiscount = Subtotal - DiscountAmount.
	AfterDiscount float64 `json:"after_discount"`

	// GST per bucket, each on the pre-discount bucket value.
	TileGST           float64 `json:"tile_gst"`
	CustomItemsGST    float64 `json:"custom_items_gst"`
	CustomServicesGST float64 `json:"custom_services_gst"`
	TotalGST          float64 `json:"total_gst"`

	// FinalTotal = AfterDiscount + TotalGST.
	FinalTotal float64 `json:"final_total"`
}

// CalculateTile runs the full tile aggregate engine over a quote-state
// snapshot.
func CalculateTile(state domain.TileQuoteState, catalog *TileLookup) TileBreakdown {
	var b TileBreakdown

	b.MaterialCost = SumBy(state.Items, func(item domain.MaterialItem) float64 {
		return MaterialItemCost(item, catalog)
	})

	if state.Markup > 0 {
		b.MarkupAmount = PercentOf(b.MaterialCost, state.Markup)
	}
	b.TileTotal = b.MaterialCost + b.MarkupAmount

	b.CustomItemsCost = SumBy(state.CustomItems, CustomItemCost)
	b.CustomServicesCost = SumBy(state.CustomServices, func(s domain.CustomService) float64 { return s.Price })

	b.Subtotal = b.TileTotal + b.CustomItemsCost + b.CustomServicesCost

	if state.Discount.Enabled && state.Discount.Value > 0 {
		b.DiscountAmount = PercentOf(b.Subtotal, state.Discount.Value)
	}
	b.AfterDiscount = b.Subtotal - b.DiscountAmount

	if state.GST.Enabled {
		b.TileGST = PercentOf(b.TileTotal, state.GST.Percentage)
		b.CustomItemsGST = PercentOf(b.CustomItemsCost, state.GST.Percentage)
		b.CustomServicesGST = PercentOf(b.CustomServicesCost, state.GST.Percentage)
		b.TotalGST = b.TileGST + b.CustomItemsGST + b.CustomServicesGST
	}

	b.FinalTotal = b.AfterDiscount + b.TotalGST

	return b
}
