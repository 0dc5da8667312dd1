package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"

	"github.com/tilbury/quoteworks/internal/domain"
)

// CatalogHandler serves the window-treatment product catalog.
type CatalogHandler struct {
	catalog domain.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(catalog domain.CatalogService, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes mounts the catalog endpoints on the given group.
func (h *CatalogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.ListProducts)
	g.GET("/products/:id", h.GetProduct)
	g.POST("/products", h.CreateProduct)
	g.PATCH("/products/:id", h.UpdateProduct)
	g.PUT("/products/:id/matrix", h.ReplaceMatrix)
	g.DELETE("/products/:id", h.ArchiveProduct)
	g.GET("/categories", h.ListCategories)
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type matrixEntryJSON struct {
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
	Price  float64 `json:"price" validate:"gte=0"`
}

type productJSON struct {
	ID          int64             `json:"id"`
	CategoryID  int64             `json:"category_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	PriceType   string            `json:"price_type"`
	BasePrice   float64           `json:"base_price"`
	MinimumQty  float64           `json:"minimum_qty"`
	PriceMatrix []matrixEntryJSON `json:"price_matrix,omitempty"`
	Status      string            `json:"status"`
}

func toProductJSON(p domain.Product) productJSON {
	out := productJSON{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		Name:       p.Name,
		PriceType:  string(p.PriceType),
		BasePrice:  p.BasePrice,
		MinimumQty: p.MinimumQty,
		Status:     string(p.Status),
	}
	if p.Description.Valid {
		out.Description = p.Description.String
	}
	for _, e := range p.PriceMatrix {
		out.PriceMatrix = append(out.PriceMatrix, matrixEntryJSON{
			Width:  e.Width,
			Height: e.Height,
			Price:  e.Price,
		})
	}
	return out
}

type categoryJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int32  `json:"sort_order"`
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListProducts handles GET /api/catalog/products.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		return respondError(c, err)
	}

	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	return c.JSON(http.StatusOK, out)
}

// GetProduct handles GET /api/catalog/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProductJSON(*product))
}

type createProductRequest struct {
	CategoryID  int64             `json:"category_id" validate:"required"`
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	PriceType   string            `json:"price_type" validate:"required,oneof=sqm each matrix"`
	BasePrice   float64           `json:"base_price" validate:"gte=0"`
	MinimumQty  float64           `json:"minimum_qty" validate:"gte=0"`
	PriceMatrix []matrixEntryJSON `json:"price_matrix" validate:"dive"`
}

// CreateProduct handles POST /api/catalog/products.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("catalog.create_product", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	params := domain.CreateProductParams{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		PriceType:  domain.PriceType(req.PriceType),
		BasePrice:  req.BasePrice,
		MinimumQty: req.MinimumQty,
	}
	if req.Description != "" {
		params.Description = pgtype.Text{String: req.Description, Valid: true}
	}
	for _, e := range req.PriceMatrix {
		params.PriceMatrix = append(params.PriceMatrix, domain.MatrixEntry{
			Width:  e.Width,
			Height: e.Height,
			Price:  e.Price,
		})
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("failed to create product", "name", req.Name, "error", err)
		return respondError(c, err)
	}

	h.logger.Info("product created", "id", product.ID, "name", product.Name)
	return c.JSON(http.StatusCreated, toProductJSON(*product))
}

type updateProductRequest struct {
	CategoryID  *int64   `json:"category_id"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	PriceType   *string  `json:"price_type" validate:"omitempty,oneof=sqm each matrix"`
	BasePrice   *float64 `json:"base_price" validate:"omitempty,gte=0"`
	MinimumQty  *float64 `json:"minimum_qty" validate:"omitempty,gte=0"`
}

// UpdateProduct handles PATCH /api/catalog/products/:id. Absent fields are
// left unchanged.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("catalog.update_product", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	params := domain.UpdateProductParams{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		BasePrice:  req.BasePrice,
		MinimumQty: req.MinimumQty,
	}
	if req.Description != nil {
		params.Description = pgtype.Text{String: *req.Description, Valid: true}
	}
	if req.PriceType != nil {
		pt := domain.PriceType(*req.PriceType)
		params.PriceType = &pt
	}

	if err := h.catalog.UpdateProduct(c.Request().Context(), id, params); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type replaceMatrixRequest struct {
	Entries []matrixEntryJSON `json:"entries" validate:"required,dive"`
}

// ReplaceMatrix handles PUT /api/catalog/products/:id/matrix.
func (h *CatalogHandler) ReplaceMatrix(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req replaceMatrixRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("catalog.replace_matrix", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entries := make([]domain.MatrixEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, domain.MatrixEntry{
			Width:  e.Width,
			Height: e.Height,
			Price:  e.Price,
		})
	}

	if err := h.catalog.ReplaceMatrix(c.Request().Context(), id, entries); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ArchiveProduct handles DELETE /api/catalog/products/:id. Products are soft
// deleted; existing quotations keep their snapshots.
func (h *CatalogHandler) ArchiveProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.catalog.ArchiveProduct(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCategories handles GET /api/catalog/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]categoryJSON, 0, len(categories))
	for _, cat := range categories {
		j := categoryJSON{
			ID:        cat.ID,
			Name:      cat.Name,
			SortOrder: cat.SortOrder,
		}
		if cat.Description.Valid {
			j.Description = cat.Description.String
		}
		out = append(out, j)
	}
	return c.JSON(http.StatusOK, out)
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("handler.path_id", "invalid id")
	}
	return id, nil
}
