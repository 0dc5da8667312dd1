package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tilbury/quoteworks/internal/domain"
)

// TileCatalogService implements domain.TileCatalogService using PostgreSQL.
type TileCatalogService struct {
	pool *pgxpool.Pool
}

var _ domain.TileCatalogService = (*TileCatalogService)(nil)

// NewTileCatalogService creates a new PostgreSQL-backed tile catalog service.
func NewTileCatalogService(pool *pgxpool.Pool) *TileCatalogService {
	return &TileCatalogService{pool: pool}
}

// GetCatalog returns the full tile catalog snapshot.
func (s *TileCatalogService) GetCatalog(ctx context.Context) (*domain.TileCatalog, error) {
	cat := &domain.TileCatalog{}

	rows, err := s.pool.Query(ctx, `SELECT id, name, base_price, created_at FROM tile_materials ORDER BY id`)
	if err != nil {
		return nil, domain.Internal(err, "tile.get_catalog", "failed to list materials")
	}
	for rows.Next() {
		var m domain.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.BasePrice, &m.CreatedAt); err != nil {
			rows.Close()
			return nil, domain.Internal(err, "tile.get_catalog", "failed to scan material")
		}
		cat.Materials = append(cat.Materials, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "tile.get_catalog", "failed to read materials")
	}

	rows, err = s.pool.Query(ctx, `SELECT id, name, multiplier FROM tile_styles ORDER BY id`)
	if err != nil {
		return nil, domain.Internal(err, "tile.get_catalog", "failed to list styles")
	}
	for rows.Next() {
		var st domain.Style
		if err := rows.Scan(&st.ID, &st.Name, &st.Multiplier); err != nil {
			rows.Close()
			return nil, domain.Internal(err, "tile.get_catalog", "failed to scan style")
		}
		cat.Styles = append(cat.Styles, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "tile.get_catalog", "failed to read styles")
	}

	rows, err = s.pool.Query(ctx, `SELECT id, name, kind, multiplier FROM tile_sizes ORDER BY id`)
	if err != nil {
		return nil, domain.Internal(err, "tile.get_catalog", "failed to list sizes")
	}
	for rows.Next() {
		var sz domain.Size
		if err := rows.Scan(&sz.ID, &sz.Name, &sz.Kind, &sz.Multiplier); err != nil {
			rows.Close()
			return nil, domain.Internal(err, "tile.get_catalog", "failed to scan size")
		}
		cat.Sizes = append(cat.Sizes, sz)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "tile.get_catalog", "failed to read sizes")
	}

	rows, err = s.pool.Query(ctx, `SELECT id, name, premium FROM tile_finishes ORDER BY id`)
	if err != nil {
		return nil, domain.Internal(err, "tile.get_catalog", "failed to list finishes")
	}
	for rows.Next() {
		var f domain.Finish
		if err := rows.Scan(&f.ID, &f.Name, &f.Premium); err != nil {
			rows.Close()
			return nil, domain.Internal(err, "tile.get_catalog", "failed to scan finish")
		}
		cat.Finishes = append(cat.Finishes, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "tile.get_catalog", "failed to read finishes")
	}

	return cat, nil
}

// CreateMaterial adds a material to the catalog.
func (s *TileCatalogService) CreateMaterial(ctx context.Context, name string, basePrice float64) (*domain.Material, error) {
	var m domain.Material
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tile_materials (name, base_price) VALUES ($1, $2)
		RETURNING id, name, base_price, created_at`, name, basePrice).
		Scan(&m.ID, &m.Name, &m.BasePrice, &m.CreatedAt)
	if err != nil {
		return nil, domain.Internal(err, "tile.create_material", "failed to insert material")
	}
	return &m, nil
}

// CreateStyle adds a style to the catalog.
func (s *TileCatalogService) CreateStyle(ctx context.Context, name string, multiplier float64) (*domain.Style, error) {
	var st domain.Style
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tile_styles (name, multiplier) VALUES ($1, $2)
		RETURNING id, name, multiplier`, name, multiplier).
		Scan(&st.ID, &st.Name, &st.Multiplier)
	if err != nil {
		return nil, domain.Internal(err, "tile.create_style", "failed to insert style")
	}
	return &st, nil
}

// CreateSize adds a size to the catalog. A non-positive multiplier is stored
// as the neutral 1.
func (s *TileCatalogService) CreateSize(ctx context.Context, name string, kind domain.SizeKind, multiplier float64) (*domain.Size, error) {
	if multiplier <= 0 {
		multiplier = 1
	}
	var sz domain.Size
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tile_sizes (name, kind, multiplier) VALUES ($1, $2, $3)
		RETURNING id, name, kind, multiplier`, name, kind, multiplier).
		Scan(&sz.ID, &sz.Name, &sz.Kind, &sz.Multiplier)
	if err != nil {
		return nil, domain.Internal(err, "tile.create_size", "failed to insert size")
	}
	return &sz, nil
}

// CreateFinish adds a finish to the catalog.
func (s *TileCatalogService) CreateFinish(ctx context.Context, name string, premium float64) (*domain.Finish, error) {
	var f domain.Finish
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tile_finishes (name, premium) VALUES ($1, $2)
		RETURNING id, name, premium`, name, premium).
		Scan(&f.ID, &f.Name, &f.Premium)
	if err != nil {
		return nil, domain.Internal(err, "tile.create_finish", "failed to insert finish")
	}
	return &f, nil
}
