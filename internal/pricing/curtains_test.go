package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilbury/quoteworks/internal/domain"
	"github.com/tilbury/quoteworks/internal/pricing"
)

func curtainsCatalog() *pricing.Catalog {
	return pricing.NewCatalog([]domain.Product{
		{ID: 1, Name: "Sheer Curtain", PriceType: domain.PriceTypeSqm, BasePrice: 85, MinimumQty: 1},
		{ID: 2, Name: "Blockout Curtain", PriceType: domain.PriceTypeSqm, BasePrice: 50, MinimumQty: 2},
		{ID: 3, Name: "Roller Blind", PriceType: domain.PriceTypeMatrix, PriceMatrix: []domain.MatrixEntry{
			{Width: 1.2, Height: 1.5, Price: 220},
		}},
		{ID: 4, Name: "Curtain Track", PriceType: domain.PriceTypeEach, BasePrice: 40, MinimumQty: 3},
	})
}

// =============================================================================
// PER-LINE FUNCTIONS
// =============================================================================

func Test_OriginalBasePrice(t *testing.T) {
	catalog := curtainsCatalog()

	tests := []struct {
		name string
		line domain.QuoteProduct
		want float64
	}{
		{"sqm uses catalog base price", domain.QuoteProduct{ProductID: 1, Width: 2, Height: 1, Quantity: 1}, 85},
		{"custom price overrides catalog", domain.QuoteProduct{ProductID: 1, Quantity: 1, CustomPrice: 99.5}, 99.5},
		{"matrix uses exact-match price", domain.QuoteProduct{ProductID: 3, Width: 1.2, Height: 1.5, Quantity: 1}, 220},
		{"matrix without match is zero", domain.QuoteProduct{ProductID: 3, Width: 1.3, Height: 1.5, Quantity: 1}, 0},
		{"missing product is zero", domain.QuoteProduct{ProductID: 99, Quantity: 1}, 0},
		{"custom price bypasses missing product", domain.QuoteProduct{ProductID: 99, Quantity: 1, CustomPrice: 10}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.OriginalBasePrice(tt.line, catalog))
		})
	}
}

func Test_BillableUnits_MinimumFloors(t *testing.T) {
	catalog := curtainsCatalog()

	tests := []struct {
		name string
		line domain.QuoteProduct
		want float64
	}{
		{
			name: "sqm area below minimum is floored",
			// area 1x1 = 1, minimum 2
			line: domain.QuoteProduct{ProductID: 2, Width: 1, Height: 1, Quantity: 1},
			want: 2,
		},
		{
			name: "sqm area above minimum is kept",
			line: domain.QuoteProduct{ProductID: 2, Width: 2, Height: 2, Quantity: 1},
			want: 4,
		},
		{
			name: "sqm quantity multiplies billable area",
			line: domain.QuoteProduct{ProductID: 2, Width: 1, Height: 1, Quantity: 3},
			want: 6,
		},
		{
			name: "each quantity below minimum is floored",
			line: domain.QuoteProduct{ProductID: 4, Quantity: 1},
			want: 3,
		},
		{
			name: "each quantity above minimum is kept",
			line: domain.QuoteProduct{ProductID: 4, Quantity: 5},
			want: 5,
		},
		{
			name: "matrix ignores area and minimums",
			line: domain.QuoteProduct{ProductID: 3, Width: 1.2, Height: 1.5, Quantity: 2},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.BillableUnits(tt.line, catalog))
		})
	}
}

func Test_EffectiveBasePrice_Markup(t *testing.T) {
	catalog := curtainsCatalog()
	line := domain.QuoteProduct{ProductID: 1, Width: 2, Height: 1, Quantity: 1}

	tests := []struct {
		name   string
		markup domain.MarkupConfig
		want   float64
	}{
		{"disabled markup has no effect", domain.MarkupConfig{Enabled: false, Type: domain.MarkupPercentage, Value: 50}, 85},
		{"percentage markup", domain.MarkupConfig{Enabled: true, Type: domain.MarkupPercentage, Value: 20}, 102},
		{"fixed markup is additive", domain.MarkupConfig{Enabled: true, Type: domain.MarkupFixed, Value: 10}, 95},
		{"non-positive markup value has no effect", domain.MarkupConfig{Enabled: true, Type: domain.MarkupFixed, Value: -5}, 85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, pricing.EffectiveBasePrice(line, catalog, tt.markup), 1e-9)
		})
	}
}

func Test_EffectiveBasePrice_SkipsZeroOriginal(t *testing.T) {
	catalog := curtainsCatalog()

	// Matrix miss prices at zero; markup must not manufacture a price.
	line := domain.QuoteProduct{ProductID: 3, Width: 9, Height: 9, Quantity: 1}
	markup := domain.MarkupConfig{Enabled: true, Type: domain.MarkupFixed, Value: 10}
	assert.Equal(t, 0.0, pricing.EffectiveBasePrice(line, catalog, markup))
}

func Test_ProductLineGST_OnPostMarkupTotal(t *testing.T) {
	catalog := curtainsCatalog()
	line := domain.QuoteProduct{ProductID: 1, Width: 2, Height: 1, Quantity: 1}
	markup := domain.MarkupConfig{Enabled: true, Type: domain.MarkupPercentage, Value: 10}
	gst := domain.GSTConfig{Enabled: true, Rate: 10}

	// 85 * 1.10 markup = 93.5 unit price, area 2 => total 187, GST 18.7
	assert.InDelta(t, 18.7, pricing.ProductLineGST(line, catalog, markup, gst), 1e-9)
	assert.InDelta(t, 205.7, pricing.ProductLineTotalWithGST(line, catalog, markup, gst), 1e-9)

	gst.Enabled = false
	assert.Equal(t, 0.0, pricing.ProductLineGST(line, catalog, markup, gst))
}

func Test_AddOnCost_UnitTypes(t *testing.T) {
	tests := []struct {
		name  string
		addOn domain.AddOn
		want  float64
	}{
		{"each", domain.AddOn{UnitType: domain.AddOnUnitEach, UnitPrice: 15, Quantity: 4}, 60},
		{"sqm", domain.AddOn{UnitType: domain.AddOnUnitSqm, UnitPrice: 10, Quantity: 2, Width: 1.5, Height: 2}, 60},
		{"linear", domain.AddOn{UnitType: domain.AddOnUnitLinear, UnitPrice: 8, Quantity: 1, Length: 2.5}, 20},
		{"sqm without dimensions is zero", domain.AddOn{UnitType: domain.AddOnUnitSqm, UnitPrice: 10, Quantity: 2}, 0},
		{"linear without length is zero", domain.AddOn{UnitType: domain.AddOnUnitLinear, UnitPrice: 8, Quantity: 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, pricing.AddOnCost(tt.addOn), 1e-9)
		})
	}
}

// =============================================================================
// AGGREGATE ENGINE
// =============================================================================

// One sqm product at 85/sqm, 2x1.5m (area 3), GST 10%, nothing else:
// base total 255, GST 25.50, grand total 280.50.
func Test_CalculateCurtains_SingleSqmProductWithGST(t *testing.T) {
	catalog := curtainsCatalog()
	state := domain.CurtainsQuoteState{
		Products: []domain.QuoteProduct{
			{ProductID: 1, Width: 2, Height: 1.5, Quantity: 1},
		},
		GST: domain.GSTConfig{Enabled: true, Rate: 10},
	}

	b := pricing.CalculateCurtains(state, catalog)

	assert.InDelta(t, 255, b.SubtotalBeforeMarkup, 1e-9)
	assert.Equal(t, 0.0, b.TotalMarkup)
	assert.InDelta(t, 255, b.SubtotalAfterMarkup, 1e-9)
	assert.InDelta(t, 25.5, b.TotalGST, 1e-9)
	assert.Equal(t, 0.0, b.DiscountAmount)
	assert.InDelta(t, 280.5, b.GrandTotal, 1e-9)
	assert.Empty(t, b.InvalidProducts)
}

func Test_CalculateCurtains_MarkupAdditivity(t *testing.T) {
	catalog := curtainsCatalog()
	state := domain.CurtainsQuoteState{
		Products: []domain.QuoteProduct{
			{ProductID: 1, Width: 2, Height: 1.5, Quantity: 1}, // units 3
			{ProductID: 4, Quantity: 5},                        // units 5
		},
		Markup: domain.MarkupConfig{Enabled: true, Type: domain.MarkupFixed, Value: 10},
	}

	b := pricing.CalculateCurtains(state, catalog)

	// Fixed markup adds exactly 10 per billable unit: 3*10 + 5*10 = 80.
	assert.InDelta(t, 80, b.TotalMarkup, 1e-9)
	assert.InDelta(t, b.SubtotalBeforeMarkup+b.TotalMarkup, b.SubtotalAfterMarkup, 1e-9)
}

func Test_CalculateCurtains_MarkupNeverAppliesToAddOnsOrServices(t *testing.T) {
	catalog := curtainsCatalog()
	state := domain.CurtainsQuoteState{
		AddOns: []domain.AddOn{
			{UnitType: domain.AddOnUnitEach, UnitPrice: 30, Quantity: 2},
		},
		CustomServices: []domain.CustomService{{Description: "Site measure", Price: 120}},
		Markup:         domain.MarkupConfig{Enabled: true, Type: domain.MarkupPercentage, Value: 50},
	}

	b := pricing.CalculateCurtains(state, catalog)

	assert.Equal(t, 0.0, b.TotalMarkup)
	assert.InDelta(t, 180, b.SubtotalBeforeMarkup, 1e-9)
	assert.InDelta(t, 180, b.SubtotalAfterMarkup, 1e-9)
}

func Test_CalculateCurtains_DiscountOnPostGSTSum(t *testing.T) {
	catalog := curtainsCatalog()
	base := domain.CurtainsQuoteState{
		Products: []domain.QuoteProduct{
			{ProductID: 1, Width: 2, Height: 1.5, Quantity: 1}, // 255
		},
		GST: domain.GSTConfig{Enabled: true, Rate: 10}, // post-GST sum 280.50
	}

	t.Run("percentage discount", func(t *testing.T) {
		state := base
		state.Discount = domain.DiscountConfig{Type: domain.DiscountPercentage, Value: 10}
		b := pricing.CalculateCurtains(state, catalog)
		assert.InDelta(t, 28.05, b.DiscountAmount, 1e-9)
		assert.InDelta(t, 252.45, b.GrandTotal, 1e-9)
	})

	t.Run("fixed discount", func(t *testing.T) {
		state := base
		state.Discount = domain.DiscountConfig{Type: domain.DiscountFixed, Value: 50}
		b := pricing.CalculateCurtains(state, catalog)
		assert.InDelta(t, 50, b.DiscountAmount, 1e-9)
		assert.InDelta(t, 230.5, b.GrandTotal, 1e-9)
	})

	t.Run("fixed discount is capped at the post-GST sum", func(t *testing.T) {
		state := base
		state.Discount = domain.DiscountConfig{Type: domain.DiscountFixed, Value: 10000}
		b := pricing.CalculateCurtains(state, catalog)
		assert.InDelta(t, 280.5, b.DiscountAmount, 1e-9)
		assert.InDelta(t, 0, b.GrandTotal, 1e-9)
	})

	t.Run("negative discount has no effect", func(t *testing.T) {
		state := base
		state.Discount = domain.DiscountConfig{Type: domain.DiscountPercentage, Value: -10}
		b := pricing.CalculateCurtains(state, catalog)
		assert.Equal(t, 0.0, b.DiscountAmount)
	})
}

func Test_CalculateCurtains_InvalidLinesExcludedAndReported(t *testing.T) {
	catalog := curtainsCatalog()
	state := domain.CurtainsQuoteState{
		Products: []domain.QuoteProduct{
			{ProductID: 2, Width: 1, Height: 1, Quantity: 1},   // floored to 2 sqm * 50 = 100... valid
			{ProductID: 3, Width: 0.8, Height: 2, Quantity: 1}, // matrix miss
			{ProductID: 99, Quantity: 1},                       // unknown product
		},
	}

	b := pricing.CalculateCurtains(state, catalog)

	assert.InDelta(t, 100, b.SubtotalBeforeMarkup, 1e-9)
	assert.InDelta(t, 100, b.GrandTotal, 1e-9)

	require.Len(t, b.InvalidProducts, 2)
	assert.Equal(t, pricing.ReasonMatrixNoMatch, b.InvalidProducts[0].Reason)
	assert.Contains(t, b.InvalidProducts[0].Message, "0.8 x 2")
	assert.Equal(t, pricing.ReasonProductNotFound, b.InvalidProducts[1].Reason)
}

func Test_CalculateCurtains_AddOnsAndServicesGST(t *testing.T) {
	catalog := curtainsCatalog()
	state := domain.CurtainsQuoteState{
		Products: []domain.QuoteProduct{
			{ProductID: 1, Width: 2, Height: 1.5, Quantity: 1}, // 255
		},
		AddOns: []domain.AddOn{
			{UnitType: domain.AddOnUnitLinear, UnitPrice: 10, Quantity: 1, Length: 4}, // 40
		},
		CustomServices: []domain.CustomService{{Description: "Install", Price: 200}},
		GST:            domain.GSTConfig{Enabled: true, Rate: 10},
	}

	b := pricing.CalculateCurtains(state, catalog)

	assert.InDelta(t, 495, b.SubtotalBeforeMarkup, 1e-9)
	assert.InDelta(t, 49.5, b.TotalGST, 1e-9)
	assert.InDelta(t, 544.5, b.GrandTotal, 1e-9)
}

func Test_CalculateCurtains_Idempotent(t *testing.T) {
	catalog := curtainsCatalog()
	state := domain.CurtainsQuoteState{
		Products: []domain.QuoteProduct{
			{ProductID: 1, Width: 2.33, Height: 1.41, Quantity: 2},
			{ProductID: 3, Width: 1.2, Height: 1.5, Quantity: 1},
		},
		AddOns:   []domain.AddOn{{UnitType: domain.AddOnUnitSqm, UnitPrice: 7.5, Quantity: 1, Width: 2, Height: 1}},
		Markup:   domain.MarkupConfig{Enabled: true, Type: domain.MarkupPercentage, Value: 17.5},
		Discount: domain.DiscountConfig{Type: domain.DiscountPercentage, Value: 5},
		GST:      domain.GSTConfig{Enabled: true, Rate: 10},
	}

	first := pricing.CalculateCurtains(state, catalog)
	second := pricing.CalculateCurtains(state, catalog)
	assert.Equal(t, first, second, "identical snapshots must produce bit-identical results")
}
