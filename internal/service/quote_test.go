package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilbury/quoteworks/internal/domain"
	"github.com/tilbury/quoteworks/internal/events"
	"github.com/tilbury/quoteworks/internal/service"
)

// =============================================================================
// IN-MEMORY FAKES
// =============================================================================

type fakeCatalog struct {
	products []domain.Product
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return nil, nil
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, id int64, params domain.UpdateProductParams) error {
	return nil
}

func (f *fakeCatalog) ReplaceMatrix(ctx context.Context, productID int64, entries []domain.MatrixEntry) error {
	return nil
}

func (f *fakeCatalog) ArchiveProduct(ctx context.Context, id int64) error {
	return nil
}

type fakeTileCatalog struct {
	catalog domain.TileCatalog
}

func (f *fakeTileCatalog) GetCatalog(ctx context.Context) (*domain.TileCatalog, error) {
	return &f.catalog, nil
}

func (f *fakeTileCatalog) CreateMaterial(ctx context.Context, name string, basePrice float64) (*domain.Material, error) {
	return nil, nil
}

func (f *fakeTileCatalog) CreateStyle(ctx context.Context, name string, multiplier float64) (*domain.Style, error) {
	return nil, nil
}

func (f *fakeTileCatalog) CreateSize(ctx context.Context, name string, kind domain.SizeKind, multiplier float64) (*domain.Size, error) {
	return nil, nil
}

func (f *fakeTileCatalog) CreateFinish(ctx context.Context, name string, premium float64) (*domain.Finish, error) {
	return nil, nil
}

type fakeQuotations struct {
	created []domain.Quotation
	seq     int
}

func (f *fakeQuotations) CreateQuotation(ctx context.Context, q *domain.Quotation) error {
	f.created = append(f.created, *q)
	return nil
}

func (f *fakeQuotations) GetQuotation(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	for i := range f.created {
		if f.created[i].ID == id {
			return &f.created[i], nil
		}
	}
	return nil, domain.ErrQuotationNotFound
}

func (f *fakeQuotations) ListQuotations(ctx context.Context, limit, offset int) ([]domain.Quotation, error) {
	return f.created, nil
}

func (f *fakeQuotations) NextQuotationNumber(ctx context.Context, yearMonth string) (int, error) {
	f.seq++
	return f.seq, nil
}

type fakePublisher struct {
	events []events.QuoteFinalized
}

func (f *fakePublisher) PublishQuoteFinalized(event events.QuoteFinalized) error {
	f.events = append(f.events, event)
	return nil
}

// =============================================================================
// FIXTURES
// =============================================================================

func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID:        1,
			Name:      "Sheer Curtain",
			PriceType: domain.PriceTypeSqm,
			BasePrice: 50,
			Status:    domain.ProductStatusActive,
		},
		{
			ID:        2,
			Name:      "Roller Blind",
			PriceType: domain.PriceTypeMatrix,
			PriceMatrix: []domain.MatrixEntry{
				{Width: 1.2, Height: 1.5, Price: 180},
			},
			Status: domain.ProductStatusActive,
		},
	}
}

func testTileCatalog() domain.TileCatalog {
	return domain.TileCatalog{
		Materials: []domain.Material{{ID: 1, Name: "Porcelain", BasePrice: 5}},
		Styles:    []domain.Style{{ID: 1, Name: "Herringbone", Multiplier: 1.25}},
		Sizes:     []domain.Size{{ID: 1, Name: "600x600", Kind: domain.SizeKindHeightWidth, Multiplier: 1}},
		Finishes:  []domain.Finish{{ID: 1, Name: "Matte", Premium: 0.5}},
	}
}

func newTestService(catalog *fakeCatalog, tile *fakeTileCatalog, quotes *fakeQuotations, pub *fakePublisher) *service.QuoteService {
	// A nil *fakePublisher must stay an untyped nil interface, or the
	// service would try to publish through a nil receiver.
	var publisher service.EventPublisher
	if pub != nil {
		publisher = pub
	}
	return service.NewQuoteService(catalog, tile, quotes, publisher, nil, nil)
}

func int64p(v int64) *int64 { return &v }

// =============================================================================
// TESTS
// =============================================================================

func Test_PreviewCurtains_ReportsInvalidLinesWithoutFailing(t *testing.T) {
	svc := newTestService(&fakeCatalog{products: testProducts()}, &fakeTileCatalog{}, &fakeQuotations{}, nil)

	breakdown, err := svc.PreviewCurtains(context.Background(), domain.CurtainsQuoteState{
		Products: []domain.QuoteProduct{
			{ProductID: 1, Width: 2, Height: 2.5, Quantity: 1},
			{ProductID: 99, Quantity: 1}, // unknown product
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 250.0, breakdown.SubtotalBeforeMarkup)
	require.Len(t, breakdown.InvalidProducts, 1)
	assert.Equal(t, int64(99), breakdown.InvalidProducts[0].ProductID)
}

func Test_FinalizeCurtains_RejectsQuoteWithInvalidLines(t *testing.T) {
	quotes := &fakeQuotations{}
	svc := newTestService(&fakeCatalog{products: testProducts()}, &fakeTileCatalog{}, quotes, nil)

	_, err := svc.FinalizeCurtains(context.Background(), service.FinalizeCurtainsParams{
		Customer: domain.Customer{Name: "Jane Doe"},
		State: domain.CurtainsQuoteState{
			Products: []domain.QuoteProduct{
				{ProductID: 2, Width: 1.3, Height: 1.5, Quantity: 1}, // no matrix match
			},
		},
	})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Empty(t, quotes.created, "nothing should be persisted when pricing is invalid")
}

func Test_FinalizeCurtains_PersistsAndPublishes(t *testing.T) {
	quotes := &fakeQuotations{}
	pub := &fakePublisher{}
	svc := newTestService(&fakeCatalog{products: testProducts()}, &fakeTileCatalog{}, quotes, pub)

	q, err := svc.FinalizeCurtains(context.Background(), service.FinalizeCurtainsParams{
		Customer: domain.Customer{Name: "Jane Doe", Email: "jane@example.com"},
		State: domain.CurtainsQuoteState{
			Products: []domain.QuoteProduct{
				{ProductID: 1, Width: 2, Height: 2.5, Quantity: 1},
			},
			GST: domain.GSTConfig{Enabled: true, Rate: 10},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.QuoteDomainCurtains, q.Domain)
	assert.Equal(t, domain.QuotationStatusFinalized, q.Status)
	assert.Equal(t, 250.0, q.Subtotal)
	assert.Equal(t, 25.0, q.TotalGST)
	assert.Equal(t, 275.0, q.GrandTotal)
	require.Len(t, q.Lines, 1)
	assert.Equal(t, "Sheer Curtain, 2 x 2.5 m", q.Lines[0].Description)
	assert.Equal(t, 250.0, q.Lines[0].LineTotal)

	require.Len(t, quotes.created, 1)
	require.Len(t, pub.events, 1)
	assert.Equal(t, q.ID, pub.events[0].QuotationID)
	assert.Equal(t, q.Number, pub.events[0].Number)
}

func Test_FinalizeCurtains_NoPublisherConfigured(t *testing.T) {
	quotes := &fakeQuotations{}
	svc := service.NewQuoteService(&fakeCatalog{products: testProducts()}, &fakeTileCatalog{}, quotes, nil, nil, nil)

	q, err := svc.FinalizeCurtains(context.Background(), service.FinalizeCurtainsParams{
		State: domain.CurtainsQuoteState{
			Products: []domain.QuoteProduct{{ProductID: 1, Width: 2, Height: 2.5, Quantity: 1}},
		},
	})
	require.NoError(t, err)
	require.Len(t, quotes.created, 1)
	assert.Equal(t, q.Number, quotes.created[0].Number)
}

func Test_FinalizeCurtains_NumberFormat(t *testing.T) {
	quotes := &fakeQuotations{}
	svc := newTestService(&fakeCatalog{products: testProducts()}, &fakeTileCatalog{}, quotes, nil)

	state := domain.CurtainsQuoteState{
		Products: []domain.QuoteProduct{{ProductID: 1, Width: 1, Height: 1, Quantity: 1}},
	}

	first, err := svc.FinalizeCurtains(context.Background(), service.FinalizeCurtainsParams{State: state})
	require.NoError(t, err)
	second, err := svc.FinalizeCurtains(context.Background(), service.FinalizeCurtainsParams{State: state})
	require.NoError(t, err)

	assert.Regexp(t, `^Q-\d{6}-0001$`, first.Number)
	assert.Regexp(t, `^Q-\d{6}-0002$`, second.Number)
}

func Test_FinalizeCurtains_EmbedsPricingBreakdown(t *testing.T) {
	quotes := &fakeQuotations{}
	svc := newTestService(&fakeCatalog{products: testProducts()}, &fakeTileCatalog{}, quotes, nil)

	q, err := svc.FinalizeCurtains(context.Background(), service.FinalizeCurtainsParams{
		State: domain.CurtainsQuoteState{
			Products: []domain.QuoteProduct{{ProductID: 1, Width: 2, Height: 2.5, Quantity: 1}},
			GST:      domain.GSTConfig{Enabled: true, Rate: 10},
		},
	})
	require.NoError(t, err)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(q.PricingJSON, &snapshot))
	assert.Equal(t, 275.0, snapshot["grand_total"])
	assert.Equal(t, 25.0, snapshot["total_gst"])
}

func Test_FinalizeTile_PersistsCompleteItemsOnly(t *testing.T) {
	quotes := &fakeQuotations{}
	pub := &fakePublisher{}
	svc := newTestService(&fakeCatalog{}, &fakeTileCatalog{catalog: testTileCatalog()}, quotes, pub)

	q, err := svc.FinalizeTile(context.Background(), service.FinalizeTileParams{
		Customer: domain.Customer{Name: "Site Office"},
		State: domain.TileQuoteState{
			Items: []domain.MaterialItem{
				// 100 * 5 * 1.25 * 1 + 0.5 * 100 = 675
				{MaterialID: int64p(1), StyleID: int64p(1), SizeID: int64p(1), FinishID: int64p(1), SquareFootage: 100},
				// incomplete: no size selected
				{MaterialID: int64p(1), StyleID: int64p(1), FinishID: int64p(1), SquareFootage: 40},
			},
			CustomServices: []domain.CustomService{{Description: "Waterproofing", Price: 200}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.QuoteDomainTile, q.Domain)
	assert.Equal(t, 875.0, q.GrandTotal)
	require.Len(t, q.Lines, 2, "incomplete items must not become lines")
	assert.Equal(t, "Porcelain, Herringbone, 600x600, Matte", q.Lines[0].Description)
	assert.Equal(t, 675.0, q.Lines[0].LineTotal)
	assert.Equal(t, "Waterproofing", q.Lines[1].Description)

	require.Len(t, pub.events, 1)
	assert.Equal(t, string(domain.QuoteDomainTile), pub.events[0].Domain)
}

func Test_FinalizeTile_GrandTotalMatchesEngine(t *testing.T) {
	quotes := &fakeQuotations{}
	svc := newTestService(&fakeCatalog{}, &fakeTileCatalog{catalog: testTileCatalog()}, quotes, nil)

	q, err := svc.FinalizeTile(context.Background(), service.FinalizeTileParams{
		State: domain.TileQuoteState{
			Items: []domain.MaterialItem{
				{MaterialID: int64p(1), StyleID: int64p(1), SizeID: int64p(1), FinishID: int64p(1), SquareFootage: 100},
			},
			Markup:   10,
			Discount: domain.TileDiscountConfig{Enabled: true, Value: 10},
			GST:      domain.TileGSTConfig{Enabled: true, Percentage: 10},
		},
	})
	require.NoError(t, err)

	// material 675, markup on material only 67.5, subtotal 742.5,
	// discount 74.25, GST 74.25 on the pre-discount bucket.
	assert.Equal(t, 742.5, q.Subtotal)
	assert.Equal(t, 74.25, q.Discount)
	assert.InDelta(t, 74.25, q.TotalGST, 1e-9)
	assert.InDelta(t, 742.5, q.GrandTotal, 1e-9)
}
