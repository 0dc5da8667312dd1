package pricing

import "github.com/tilbury/quoteworks/internal/domain"

// Catalog is an immutable window-treatment catalog snapshot with indexed
// lookups. Price tables for matrix products are built once at construction so
// the per-keystroke recalculation path stays cheap.
type Catalog struct {
	products map[int64]domain.Product
	tables   map[int64]*PriceTable
}

// NewCatalog indexes a product list into a calculation-ready snapshot.
func NewCatalog(products []domain.Product) *Catalog {
	c := &Catalog{
		products: make(map[int64]domain.Product, len(products)),
		tables:   make(map[int64]*PriceTable),
	}
	for _, p := range products {
		c.products[p.ID] = p
		if p.PriceType == domain.PriceTypeMatrix {
			c.tables[p.ID] = NewPriceTable(p.PriceMatrix)
		}
	}
	return c
}

// Product returns the catalog product for id.
func (c *Catalog) Product(id int64) (domain.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// matrixPrice looks up the exact-match matrix price for a product.
func (c *Catalog) matrixPrice(id int64, width, height float64) (float64, bool) {
	t, ok := c.tables[id]
	if !ok {
		return 0, false
	}
	return t.Price(width, height)
}

// TileLookup is an immutable tile catalog snapshot with indexed lookups.
type TileLookup struct {
	materials map[int64]domain.Material
	styles    map[int64]domain.Style
	sizes     map[int64]domain.Size
	finishes  map[int64]domain.Finish
}

// NewTileLookup indexes a tile catalog into a calculation-ready snapshot.
func NewTileLookup(cat domain.TileCatalog) *TileLookup {
	l := &TileLookup{
		materials: make(map[int64]domain.Material, len(cat.Materials)),
		styles:    make(map[int64]domain.Style, len(cat.Styles)),
		sizes:     make(map[int64]domain.Size, len(cat.Sizes)),
		finishes:  make(map[int64]domain.Finish, len(cat.Finishes)),
	}
	for _, m := range cat.Materials {
		l.materials[m.ID] = m
	}
	for _, s := range cat.Styles {
		l.styles[s.ID] = s
	}
	for _, s := range cat.Sizes {
		l.sizes[s.ID] = s
	}
	for _, f := range cat.Finishes {
		l.finishes[f.ID] = f
	}
	return l
}
