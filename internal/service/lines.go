package service

import (
	"fmt"
	"strings"

	"github.com/tilbury/quoteworks/internal/domain"
	"github.com/tilbury/quoteworks/internal/pricing"
)

// curtainsLines builds the itemized rows persisted with a window-treatment
// quotation. Only lines that passed the validity gate reach this point; unit
// prices are post-markup and line totals are pre-GST, matching the
// SubtotalAfterMarkup figure.
func curtainsLines(state domain.CurtainsQuoteState, catalog *pricing.Catalog) []domain.QuotationLine {
	var lines []domain.QuotationLine

	for _, line := range state.Products {
		product, ok := catalog.Product(line.ProductID)
		if !ok {
			continue
		}

		units := pricing.BillableUnits(line, catalog)
		effective := pricing.EffectiveBasePrice(line, catalog, state.Markup)

		lines = append(lines, domain.QuotationLine{
			Description: curtainsDescription(line, product),
			Quantity:    units,
			Unit:        unitLabel(product.PriceType),
			UnitPrice:   effective,
			LineTotal:   effective * units,
		})
	}

	for _, a := range state.AddOns {
		desc := a.Description
		if desc == "" {
			desc = "Add-on"
		}
		lines = append(lines, domain.QuotationLine{
			Description: desc,
			Quantity:    a.Quantity,
			Unit:        string(a.UnitType),
			UnitPrice:   a.UnitPrice,
			LineTotal:   pricing.AddOnCost(a),
		})
	}

	for _, cs := range state.CustomServices {
		desc := cs.Description
		if desc == "" {
			desc = "Custom service"
		}
		lines = append(lines, domain.QuotationLine{
			Description: desc,
			Quantity:    1,
			UnitPrice:   cs.Price,
			LineTotal:   cs.Price,
		})
	}

	return lines
}

func curtainsDescription(line domain.QuoteProduct, product domain.Product) string {
	parts := []string{product.Name}

	if product.PriceType != domain.PriceTypeEach && line.Width > 0 && line.Height > 0 {
		parts = append(parts, fmt.Sprintf("%g x %g m", line.Width, line.Height))
	}
	if line.Color != "" {
		parts = append(parts, line.Color)
	}
	if line.ControlType != "" {
		parts = append(parts, line.ControlType)
	}
	if line.Installation {
		parts = append(parts, "incl. installation")
	}
	if line.SpecialFeatures != "" {
		parts = append(parts, line.SpecialFeatures)
	}

	return strings.Join(parts, ", ")
}

func unitLabel(t domain.PriceType) string {
	switch t {
	case domain.PriceTypeSqm:
		return "sqm"
	default:
		return "each"
	}
}

// tileLines builds the itemized rows persisted with a tile quotation.
// Incomplete material items are skipped; they contribute nothing to pricing
// and have no meaningful description.
func tileLines(state domain.TileQuoteState, cat domain.TileCatalog, lookup *pricing.TileLookup) []domain.QuotationLine {
	names := tileNameIndex(cat)

	var lines []domain.QuotationLine
	for _, item := range state.Items {
		cost := pricing.MaterialItemCost(item, lookup)
		if cost == 0 {
			continue
		}

		lines = append(lines, domain.QuotationLine{
			Description: tileDescription(item, names),
			Quantity:    item.SquareFootage,
			Unit:        "sqft",
			UnitPrice:   cost / item.SquareFootage,
			LineTotal:   cost,
		})
	}

	for _, item := range state.CustomItems {
		desc := item.Description
		if desc == "" {
			desc = "Custom item"
		}
		lines = append(lines, domain.QuotationLine{
			Description: desc,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.Price,
			LineTotal:   pricing.CustomItemCost(item),
		})
	}

	for _, cs := range state.CustomServices {
		desc := cs.Description
		if desc == "" {
			desc = "Custom service"
		}
		lines = append(lines, domain.QuotationLine{
			Description: desc,
			Quantity:    1,
			UnitPrice:   cs.Price,
			LineTotal:   cs.Price,
		})
	}

	return lines
}

type tileNames struct {
	materials map[int64]string
	styles    map[int64]string
	sizes     map[int64]string
	finishes  map[int64]string
}

func tileNameIndex(cat domain.TileCatalog) tileNames {
	n := tileNames{
		materials: make(map[int64]string, len(cat.Materials)),
		styles:    make(map[int64]string, len(cat.Styles)),
		sizes:     make(map[int64]string, len(cat.Sizes)),
		finishes:  make(map[int64]string, len(cat.Finishes)),
	}
	for _, m := range cat.Materials {
		n.materials[m.ID] = m.Name
	}
	for _, s := range cat.Styles {
		n.styles[s.ID] = s.Name
	}
	for _, s := range cat.Sizes {
		n.sizes[s.ID] = s.Name
	}
	for _, f := range cat.Finishes {
		n.finishes[f.ID] = f.Name
	}
	return n
}

func tileDescription(item domain.MaterialItem, names tileNames) string {
	var parts []string
	if item.MaterialID != nil {
		parts = append(parts, names.materials[*item.MaterialID])
	}
	if item.StyleID != nil {
		parts = append(parts, names.styles[*item.StyleID])
	}
	if item.SizeID != nil {
		parts = append(parts, names.sizes[*item.SizeID])
	}
	if item.FinishID != nil {
		parts = append(parts, names.finishes[*item.FinishID])
	}
	return strings.Join(parts, ", ")
}
