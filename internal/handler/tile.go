package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tilbury/quoteworks/internal/domain"
)

// TileCatalogHandler serves the tile reference data.
type TileCatalogHandler struct {
	tile   domain.TileCatalogService
	logger *slog.Logger
}

// NewTileCatalogHandler creates a tile catalog handler.
func NewTileCatalogHandler(tile domain.TileCatalogService, logger *slog.Logger) *TileCatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TileCatalogHandler{tile: tile, logger: logger}
}

// RegisterRoutes mounts the tile catalog endpoints on the given group.
func (h *TileCatalogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetCatalog)
	g.POST("/materials", h.CreateMaterial)
	g.POST("/styles", h.CreateStyle)
	g.POST("/sizes", h.CreateSize)
	g.POST("/finishes", h.CreateFinish)
}

type tileCatalogJSON struct {
	Materials []tileMaterialJSON `json:"materials"`
	Styles    []tileStyleJSON    `json:"styles"`
	Sizes     []tileSizeJSON     `json:"sizes"`
	Finishes  []tileFinishJSON   `json:"finishes"`
}

type tileMaterialJSON struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"base_price"`
}

type tileStyleJSON struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

type tileSizeJSON struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Multiplier float64 `json:"multiplier"`
}

type tileFinishJSON struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Premium float64 `json:"premium"`
}

// GetCatalog handles GET /api/tile/catalog.
func (h *TileCatalogHandler) GetCatalog(c echo.Context) error {
	cat, err := h.tile.GetCatalog(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to load tile catalog", "error", err)
		return respondError(c, err)
	}

	out := tileCatalogJSON{
		Materials: make([]tileMaterialJSON, 0, len(cat.Materials)),
		Styles:    make([]tileStyleJSON, 0, len(cat.Styles)),
		Sizes:     make([]tileSizeJSON, 0, len(cat.Sizes)),
		Finishes:  make([]tileFinishJSON, 0, len(cat.Finishes)),
	}
	for _, m := range cat.Materials {
		out.Materials = append(out.Materials, tileMaterialJSON{ID: m.ID, Name: m.Name, BasePrice: m.BasePrice})
	}
	for _, s := range cat.Styles {
		out.Styles = append(out.Styles, tileStyleJSON{ID: s.ID, Name: s.Name, Multiplier: s.Multiplier})
	}
	for _, s := range cat.Sizes {
		out.Sizes = append(out.Sizes, tileSizeJSON{ID: s.ID, Name: s.Name, Kind: string(s.Kind), Multiplier: s.Multiplier})
	}
	for _, f := range cat.Finishes {
		out.Finishes = append(out.Finishes, tileFinishJSON{ID: f.ID, Name: f.Name, Premium: f.Premium})
	}
	return c.JSON(http.StatusOK, out)
}

type createMaterialRequest struct {
	Name      string  `json:"name" validate:"required"`
	BasePrice float64 `json:"base_price" validate:"gte=0"`
}

// CreateMaterial handles POST /api/tile/catalog/materials.
func (h *TileCatalogHandler) CreateMaterial(c echo.Context) error {
	var req createMaterialRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("tile.create_material", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.tile.CreateMaterial(c.Request().Context(), req.Name, req.BasePrice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, tileMaterialJSON{ID: m.ID, Name: m.Name, BasePrice: m.BasePrice})
}

type createStyleRequest struct {
	Name       string  `json:"name" validate:"required"`
	Multiplier float64 `json:"multiplier"`
}

// CreateStyle handles POST /api/tile/catalog/styles.
func (h *TileCatalogHandler) CreateStyle(c echo.Context) error {
	var req createStyleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("tile.create_style", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.tile.CreateStyle(c.Request().Context(), req.Name, req.Multiplier)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, tileStyleJSON{ID: s.ID, Name: s.Name, Multiplier: s.Multiplier})
}

type createSizeRequest struct {
	Name       string  `json:"name" validate:"required"`
	Kind       string  `json:"kind" validate:"required,oneof=linear_meter height_width custom"`
	Multiplier float64 `json:"multiplier"`
}

// CreateSize handles POST /api/tile/catalog/sizes.
func (h *TileCatalogHandler) CreateSize(c echo.Context) error {
	var req createSizeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("tile.create_size", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.tile.CreateSize(c.Request().Context(), req.Name, domain.SizeKind(req.Kind), req.Multiplier)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, tileSizeJSON{ID: s.ID, Name: s.Name, Kind: string(s.Kind), Multiplier: s.Multiplier})
}

type createFinishRequest struct {
	Name    string  `json:"name" validate:"required"`
	Premium float64 `json:"premium" validate:"gte=0"`
}

// CreateFinish handles POST /api/tile/catalog/finishes.
func (h *TileCatalogHandler) CreateFinish(c echo.Context) error {
	var req createFinishRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("tile.create_finish", "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	f, err := h.tile.CreateFinish(c.Request().Context(), req.Name, req.Premium)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, tileFinishJSON{ID: f.ID, Name: f.Name, Premium: f.Premium})
}
