package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilbury/quoteworks/internal/domain"
	"github.com/tilbury/quoteworks/internal/handler"
	"github.com/tilbury/quoteworks/internal/pdf"
	"github.com/tilbury/quoteworks/internal/router"
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
	p := domain.Product{
		ID:         int64(len(f.products) + 1),
		CategoryID: params.CategoryID,
		Name:       params.Name,
		PriceType:  params.PriceType,
		BasePrice:  params.BasePrice,
		MinimumQty: params.MinimumQty,
		Status:     domain.ProductStatusActive,
	}
	f.products = append(f.products, p)
	return &p, nil
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
	m := domain.Material{ID: int64(len(f.catalog.Materials) + 1), Name: name, BasePrice: basePrice}
	f.catalog.Materials = append(f.catalog.Materials, m)
	return &m, nil
}

func (f *fakeTileCatalog) CreateStyle(ctx context.Context, name string, multiplier float64) (*domain.Style, error) {
	s := domain.Style{ID: int64(len(f.catalog.Styles) + 1), Name: name, Multiplier: multiplier}
	f.catalog.Styles = append(f.catalog.Styles, s)
	return &s, nil
}

func (f *fakeTileCatalog) CreateSize(ctx context.Context, name string, kind domain.SizeKind, multiplier float64) (*domain.Size, error) {
	if multiplier <= 0 {
		multiplier = 1
	}
	s := domain.Size{ID: int64(len(f.catalog.Sizes) + 1), Name: name, Kind: kind, Multiplier: multiplier}
	f.catalog.Sizes = append(f.catalog.Sizes, s)
	return &s, nil
}

func (f *fakeTileCatalog) CreateFinish(ctx context.Context, name string, premium float64) (*domain.Finish, error) {
	fin := domain.Finish{ID: int64(len(f.catalog.Finishes) + 1), Name: name, Premium: premium}
	f.catalog.Finishes = append(f.catalog.Finishes, fin)
	return &fin, nil
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

// =============================================================================
// TEST SERVER
// =============================================================================

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (http.Handler, *fakeQuotations) {
	t.Helper()

	catalog := &fakeCatalog{products: []domain.Product{
		{ID: 1, Name: "Sheer Curtain", PriceType: domain.PriceTypeSqm, BasePrice: 50, Status: domain.ProductStatusActive},
	}}
	tile := &fakeTileCatalog{}
	quotes := &fakeQuotations{}

	svc := service.NewQuoteService(catalog, tile, quotes, nil, nil, nil)
	renderer := pdf.NewRenderer(pdf.Company{Name: "Tilbury Window Furnishings"})

	e := router.New(router.Handlers{
		Catalog:     handler.NewCatalogHandler(catalog, nil),
		TileCatalog: handler.NewTileCatalogHandler(tile, nil),
		Quote:       handler.NewQuoteHandler(svc, quotes, renderer, nil),
	}, newTestLogger())

	return e, quotes
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// TESTS
// =============================================================================

func Test_PreviewCurtains_ReturnsBreakdown(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/curtains/preview", `{
		"products": [{"product_id": 1, "width": 2, "height": 2.5, "quantity": 1}],
		"gst": {"enabled": true, "rate": 10}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 250.0, body["subtotal_before_markup"])
	assert.Equal(t, 25.0, body["total_gst"])
	assert.Equal(t, 275.0, body["grand_total"])
}

func Test_FinalizeCurtains_CreatesQuotation(t *testing.T) {
	srv, quotes := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/curtains/finalize", `{
		"customer": {"name": "Jane Doe", "email": "jane@example.com"},
		"state": {
			"products": [{"product_id": 1, "width": 2, "height": 2.5, "quantity": 1}],
			"gst": {"enabled": true, "rate": 10}
		}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "curtains", body["domain"])
	assert.Equal(t, 275.0, body["grand_total"])
	assert.NotEmpty(t, body["number"])

	require.Len(t, quotes.created, 1)
}

func Test_FinalizeCurtains_InvalidLineRejected(t *testing.T) {
	srv, quotes := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/curtains/finalize", `{
		"customer": {"name": "Jane Doe"},
		"state": {
			"products": [{"product_id": 42, "quantity": 1}]
		}
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, quotes.created)
}

func Test_FinalizeCurtains_MissingCustomerName(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/curtains/finalize", `{
		"customer": {"name": ""},
		"state": {"products": []}
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_GetQuotation_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/quotes/quotations/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_DownloadPDF(t *testing.T) {
	srv, quotes := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/curtains/finalize", `{
		"customer": {"name": "Jane Doe"},
		"state": {"products": [{"product_id": 1, "width": 2, "height": 2.5, "quantity": 1}]}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, quotes.created, 1)

	id := quotes.created[0].ID.String()
	rec = doJSON(t, srv, http.MethodGet, "/api/quotes/quotations/"+id+"/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func Test_ExportQuotations(t *testing.T) {
	srv, quotes := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/curtains/finalize", `{
		"customer": {"name": "Jane Doe"},
		"state": {"products": [{"product_id": 1, "width": 2, "height": 2.5, "quantity": 1}]}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, quotes.created, 1)

	rec = doJSON(t, srv, http.MethodGet, "/api/quotes/quotations/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "quotations.xlsx")
	// xlsx files are zip archives.
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}

func Test_TileCatalog_CreateAndGet(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/tile/catalog/materials", `{"name": "Porcelain", "base_price": 5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/tile/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	materials := body["materials"].([]any)
	require.Len(t, materials, 1)
}

func Test_CatalogValidation_RejectsBadPriceType(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/catalog/products", `{
		"category_id": 1, "name": "Track", "price_type": "per_metre"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
