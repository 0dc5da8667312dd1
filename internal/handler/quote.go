package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tilbury/quoteworks/internal/domain"
	"github.com/tilbury/quoteworks/internal/export"
	"github.com/tilbury/quoteworks/internal/pdf"
	"github.com/tilbury/quoteworks/internal/service"
)

// registerExportLimit caps how many quotations the register export fetches.
// It matches the storage layer's maximum page size.
const registerExportLimit = 200

// QuoteHandler serves pricing previews, quotation finalization, and document
// downloads.
type QuoteHandler struct {
	quotes     *service.QuoteService
	quotations domain.QuotationService
	renderer   *pdf.Renderer
	logger     *slog.Logger
}

// NewQuoteHandler creates a quote handler.
func NewQuoteHandler(
	quotes *service.QuoteService,
	quotations domain.QuotationService,
	renderer *pdf.Renderer,
	logger *slog.Logger,
) *QuoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteHandler{
		quotes:     quotes,
		quotations: quotations,
		renderer:   renderer,
		logger:     logger,
	}
}

// RegisterRoutes mounts the quoting endpoints on the given group.
func (h *QuoteHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/curtains/preview", h.PreviewCurtains)
	g.POST("/curtains/finalize", h.FinalizeCurtains)
	g.POST("/tile/preview", h.PreviewTile)
	g.POST("/tile/finalize", h.FinalizeTile)

	g.GET("/quotations", h.ListQuotations)
	g.GET("/quotations/export", h.ExportQuotations)
	g.GET("/quotations/:id", h.GetQuotation)
	g.GET("/quotations/:id/pdf", h.DownloadPDF)
	g.GET("/quotations/:id/xlsx", h.DownloadExcel)
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

type curtainsProductRequest struct {
	ProductID       int64   `json:"product_id" validate:"required,gt=0"`
	Width           float64 `json:"width" validate:"gte=0"`
	Height          float64 `json:"height" validate:"gte=0"`
	Quantity        int     `json:"quantity" validate:"gte=0"`
	CustomPrice     float64 `json:"custom_price" validate:"gte=0"`
	Color           string  `json:"color"`
	ControlType     string  `json:"control_type"`
	Installation    bool    `json:"installation"`
	SpecialFeatures string  `json:"special_features"`
}

type addOnRequest struct {
	Description string  `json:"description"`
	UnitType    string  `json:"unit_type" validate:"required,oneof=each sqm linear"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Width       float64 `json:"width" validate:"gte=0"`
	Height      float64 `json:"height" validate:"gte=0"`
	Length      float64 `json:"length" validate:"gte=0"`
}

type customServiceRequest struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type markupRequest struct {
	Enabled bool    `json:"enabled"`
	Type    string  `json:"type" validate:"omitempty,oneof=percentage fixed"`
	Value   float64 `json:"value"`
}

type discountRequest struct {
	Type  string  `json:"type" validate:"omitempty,oneof=percentage fixed"`
	Value float64 `json:"value"`
}

type gstRequest struct {
	Enabled bool    `json:"enabled"`
	Rate    float64 `json:"rate" validate:"gte=0"`
}

type curtainsStateRequest struct {
	Products       []curtainsProductRequest `json:"products" validate:"dive"`
	AddOns         []addOnRequest           `json:"add_ons" validate:"dive"`
	CustomServices []customServiceRequest   `json:"custom_services" validate:"dive"`
	Markup         markupRequest            `json:"markup"`
	Discount       discountRequest          `json:"discount"`
	GST            gstRequest               `json:"gst"`
}

func (r curtainsStateRequest) toDomain() domain.CurtainsQuoteState {
	state := domain.CurtainsQuoteState{
		Markup: domain.MarkupConfig{
			Enabled: r.Markup.Enabled,
			Type:    domain.MarkupType(r.Markup.Type),
			Value:   r.Markup.Value,
		},
		Discount: domain.DiscountConfig{
			Type:  domain.DiscountType(r.Discount.Type),
			Value: r.Discount.Value,
		},
		GST: domain.GSTConfig{
			Enabled: r.GST.Enabled,
			Rate:    r.GST.Rate,
		},
	}
	for _, p := range r.Products {
		state.Products = append(state.Products, domain.QuoteProduct{
			ProductID:       p.ProductID,
			Width:           p.Width,
			Height:          p.Height,
			Quantity:        p.Quantity,
			CustomPrice:     p.CustomPrice,
			Color:           p.Color,
			ControlType:     p.ControlType,
			Installation:    p.Installation,
			SpecialFeatures: p.SpecialFeatures,
		})
	}
	for _, a := range r.AddOns {
		state.AddOns = append(state.AddOns, domain.AddOn{
			Description: a.Description,
			UnitType:    domain.AddOnUnitType(a.UnitType),
			UnitPrice:   a.UnitPrice,
			Quantity:    a.Quantity,
			Width:       a.Width,
			Height:      a.Height,
			Length:      a.Length,
		})
	}
	for _, s := range r.CustomServices {
		state.CustomServices = append(state.CustomServices, domain.CustomService{
			Description: s.Description,
			Price:       s.Price,
		})
	}
	return state
}

type materialItemRequest struct {
	MaterialID    *int64  `json:"material_id"`
	StyleID       *int64  `json:"style_id"`
	SizeID        *int64  `json:"size_id"`
	FinishID      *int64  `json:"finish_id"`
	SquareFootage float64 `json:"square_footage" validate:"gte=0"`
}

type customItemRequest struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Unit        string  `json:"unit"`
}

type tileDiscountRequest struct {
	Enabled bool    `json:"enabled"`
	Value   float64 `json:"value"`
}

type tileGSTRequest struct {
	Enabled    bool    `json:"enabled"`
	Percentage float64 `json:"percentage" validate:"gte=0"`
}

type tileStateRequest struct {
	Items          []materialItemRequest  `json:"items" validate:"dive"`
	CustomItems    []customItemRequest    `json:"custom_items" validate:"dive"`
	CustomServices []customServiceRequest `json:"custom_services" validate:"dive"`
	Markup         float64                `json:"markup"`
	Discount       tileDiscountRequest    `json:"discount"`
	GST            tileGSTRequest         `json:"gst"`
}

func (r tileStateRequest) toDomain() domain.TileQuoteState {
	state := domain.TileQuoteState{
		Markup: r.Markup,
		Discount: domain.TileDiscountConfig{
			Enabled: r.Discount.Enabled,
			Value:   r.Discount.Value,
		},
		GST: domain.TileGSTConfig{
			Enabled:    r.GST.Enabled,
			Percentage: r.GST.Percentage,
		},
	}
	for _, i := range r.Items {
		state.Items = append(state.Items, domain.MaterialItem{
			MaterialID:    i.MaterialID,
			StyleID:       i.StyleID,
			SizeID:        i.SizeID,
			FinishID:      i.FinishID,
			SquareFootage: i.SquareFootage,
		})
	}
	for _, i := range r.CustomItems {
		state.CustomItems = append(state.CustomItems, domain.CustomItem{
			Description: i.Description,
			Price:       i.Price,
			Quantity:    i.Quantity,
			Unit:        i.Unit,
		})
	}
	for _, s := range r.CustomServices {
		state.CustomServices = append(state.CustomServices, domain.CustomService{
			Description: s.Description,
			Price:       s.Price,
		})
	}
	return state
}

type customerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type finalizeCurtainsRequest struct {
	Customer customerRequest      `json:"customer" validate:"required"`
	State    curtainsStateRequest `json:"state" validate:"required"`
}

type finalizeTileRequest struct {
	Customer customerRequest  `json:"customer" validate:"required"`
	State    tileStateRequest `json:"state" validate:"required"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type quotationLineJSON struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type quotationJSON struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"`
	Domain     string              `json:"domain"`
	Status     string              `json:"status"`
	Customer   customerRequest     `json:"customer"`
	Lines      []quotationLineJSON `json:"lines"`
	Pricing    json.RawMessage     `json:"pricing,omitempty"`
	Subtotal   float64             `json:"subtotal"`
	TotalGST   float64             `json:"total_gst"`
	Discount   float64             `json:"discount"`
	GrandTotal float64             `json:"grand_total"`
	CreatedAt  time.Time           `json:"created_at"`
}

func toQuotationJSON(q *domain.Quotation, includePricing bool) quotationJSON {
	out := quotationJSON{
		ID:     q.ID.String(),
		Number: q.Number,
		Domain: string(q.Domain),
		Status: string(q.Status),
		Customer: customerRequest{
			Name:    q.Customer.Name,
			Email:   q.Customer.Email,
			Phone:   q.Customer.Phone,
			Address: q.Customer.Address,
		},
		Subtotal:   q.Subtotal,
		TotalGST:   q.TotalGST,
		Discount:   q.Discount,
		GrandTotal: q.GrandTotal,
		CreatedAt:  q.CreatedAt,
	}
	for _, l := range q.Lines {
		out.Lines = append(out.Lines, quotationLineJSON{
			Description: l.Description,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	if includePricing {
		out.Pricing = json.RawMessage(q.PricingJSON)
	}
	return out
}

// =============================================================================
// PREVIEW HANDLERS
// =============================================================================

// PreviewCurtains handles POST /api/quotes/curtains/preview.
func (h *QuoteHandler) PreviewCurtains(c echo.Context) error {
	var req curtainsStateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("quote.preview", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	breakdown, err := h.quotes.PreviewCurtains(c.Request().Context(), req.toDomain())
	if err != nil {
		h.logger.Error("curtains preview failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, breakdown)
}

// PreviewTile handles POST /api/quotes/tile/preview.
func (h *QuoteHandler) PreviewTile(c echo.Context) error {
	var req tileStateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("quote.preview", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	breakdown, err := h.quotes.PreviewTile(c.Request().Context(), req.toDomain())
	if err != nil {
		h.logger.Error("tile preview failed", "error", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, breakdown)
}

// =============================================================================
// FINALIZE HANDLERS
// =============================================================================

// FinalizeCurtains handles POST /api/quotes/curtains/finalize.
func (h *QuoteHandler) FinalizeCurtains(c echo.Context) error {
	var req finalizeCurtainsRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("quote.finalize", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	q, err := h.quotes.FinalizeCurtains(c.Request().Context(), service.FinalizeCurtainsParams{
		Customer: domain.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		State: req.State.toDomain(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toQuotationJSON(q, true))
}

// FinalizeTile handles POST /api/quotes/tile/finalize.
func (h *QuoteHandler) FinalizeTile(c echo.Context) error {
	var req finalizeTileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("quote.finalize", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	q, err := h.quotes.FinalizeTile(c.Request().Context(), service.FinalizeTileParams{
		Customer: domain.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		State: req.State.toDomain(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toQuotationJSON(q, true))
}

// =============================================================================
// QUOTATION HANDLERS
// =============================================================================

// ListQuotations handles GET /api/quotes/quotations?limit=&offset=.
func (h *QuoteHandler) ListQuotations(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	quotations, err := h.quotations.ListQuotations(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	out := make([]quotationJSON, 0, len(quotations))
	for i := range quotations {
		out = append(out, toQuotationJSON(&quotations[i], false))
	}
	return c.JSON(http.StatusOK, out)
}

// ExportQuotations handles GET /api/quotes/quotations/export. It writes the
// full quotation register as an xlsx workbook.
func (h *QuoteHandler) ExportQuotations(c echo.Context) error {
	quotations, err := h.quotations.ListQuotations(c.Request().Context(), registerExportLimit, 0)
	if err != nil {
		return respondError(c, err)
	}

	out, err := export.Register(quotations)
	if err != nil {
		h.logger.Error("register export failed", "error", err)
		return respondError(c, domain.Internal(err, "quotation.export", "failed to export register"))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="quotations.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}

// GetQuotation handles GET /api/quotes/quotations/:id.
func (h *QuoteHandler) GetQuotation(c echo.Context) error {
	q, err := h.loadQuotation(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toQuotationJSON(q, true))
}

// DownloadPDF handles GET /api/quotes/quotations/:id/pdf.
func (h *QuoteHandler) DownloadPDF(c echo.Context) error {
	q, err := h.loadQuotation(c)
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.renderer.Render(q)
	if err != nil {
		h.logger.Error("pdf render failed", "number", q.Number, "error", err)
		return respondError(c, domain.Internal(err, "quotation.pdf", "failed to render PDF"))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.pdf"`, q.Number))
	return c.Blob(http.StatusOK, "application/pdf", out)
}

// DownloadExcel handles GET /api/quotes/quotations/:id/xlsx.
func (h *QuoteHandler) DownloadExcel(c echo.Context) error {
	q, err := h.loadQuotation(c)
	if err != nil {
		return respondError(c, err)
	}

	out, err := export.Excel(q)
	if err != nil {
		h.logger.Error("excel export failed", "number", q.Number, "error", err)
		return respondError(c, domain.Internal(err, "quotation.xlsx", "failed to export workbook"))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.xlsx"`, q.Number))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}

func (h *QuoteHandler) loadQuotation(c echo.Context) (*domain.Quotation, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, domain.Invalid("quotation.get", "invalid quotation id")
	}
	return h.quotations.GetQuotation(c.Request().Context(), id)
}
