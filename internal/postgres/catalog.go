package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tilbury/quoteworks/internal/domain"
)

// CatalogService implements domain.CatalogService using PostgreSQL.
type CatalogService struct {
	pool *pgxpool.Pool
}

// Compile-time check that CatalogService implements domain.CatalogService.
var _ domain.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new PostgreSQL-backed catalog service.
func NewCatalogService(pool *pgxpool.Pool) *CatalogService {
	return &CatalogService{pool: pool}
}

// ListProducts returns all active products with their price matrices.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, category_id, name, description, price_type, base_price, minimum_qty, status, created_at, updated_at
		FROM products
		WHERE status = 'active'
		ORDER BY id`)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_products", "failed to list products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceType,
			&p.BasePrice, &p.MinimumQty, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.Internal(err, "catalog.list_products", "failed to scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.list_products", "failed to read products")
	}

	if err := s.attachMatrices(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// attachMatrices loads matrix entries for every matrix-priced product in the
// slice with a single query.
func (s *CatalogService) attachMatrices(ctx context.Context, products []domain.Product) error {
	index := make(map[int64]int, len(products))
	ids := make([]int64, 0, len(products))
	for i, p := range products {
		if p.PriceType == domain.PriceTypeMatrix {
			index[p.ID] = i
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT product_id, width, height, price
		FROM price_matrix_entries
		WHERE product_id = ANY($1)
		ORDER BY product_id, width, height`, ids)
	if err != nil {
		return domain.Internal(err, "catalog.load_matrices", "failed to load price matrices")
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var e domain.MatrixEntry
		if err := rows.Scan(&productID, &e.Width, &e.Height, &e.Price); err != nil {
			return domain.Internal(err, "catalog.load_matrices", "failed to scan matrix entry")
		}
		if i, ok := index[productID]; ok {
			products[i].PriceMatrix = append(products[i].PriceMatrix, e)
		}
	}
	return rows.Err()
}

// GetProduct retrieves a product by ID (includes archived).
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, category_id, name, description, price_type, base_price, minimum_qty, status, created_at, updated_at
		FROM products
		WHERE id = $1`, id).
		Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceType,
			&p.BasePrice, &p.MinimumQty, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "catalog.get_product", "failed to get product")
	}

	if p.PriceType == domain.PriceTypeMatrix {
		products := []domain.Product{p}
		if err := s.attachMatrices(ctx, products); err != nil {
			return nil, err
		}
		p = products[0]
	}

	return &p, nil
}

// ListCategories returns all categories ordered by sort order.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, sort_order
		FROM categories
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_categories", "failed to list categories")
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.SortOrder); err != nil {
			return nil, domain.Internal(err, "catalog.list_categories", "failed to scan category")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateProduct creates a new product, including any matrix entries.
func (s *CatalogService) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	if !validPriceType(params.PriceType) {
		return nil, domain.ErrInvalidPriceType
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "catalog.create_product", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var p domain.Product
	err = tx.QueryRow(ctx, `
		INSERT INTO products (category_id, name, description, price_type, base_price, minimum_qty)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, category_id, name, description, price_type, base_price, minimum_qty, status, created_at, updated_at`,
		params.CategoryID, params.Name, params.Description, params.PriceType, params.BasePrice, params.MinimumQty).
		Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceType,
			&p.BasePrice, &p.MinimumQty, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, domain.Internal(err, "catalog.create_product", "failed to insert product")
	}

	for _, e := range params.PriceMatrix {
		if _, err := tx.Exec(ctx, `
			INSERT INTO price_matrix_entries (product_id, width, height, price)
			VALUES ($1, $2, $3, $4)`, p.ID, e.Width, e.Height, e.Price); err != nil {
			return nil, domain.Internal(err, "catalog.create_product", "failed to insert matrix entry")
		}
	}
	p.PriceMatrix = params.PriceMatrix

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "catalog.create_product", "failed to commit")
	}

	return &p, nil
}

// UpdateProduct updates an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, params domain.UpdateProductParams) error {
	if params.PriceType != nil && !validPriceType(*params.PriceType) {
		return domain.ErrInvalidPriceType
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET
			category_id = COALESCE($2, category_id),
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			price_type = COALESCE($5, price_type),
			base_price = COALESCE($6, base_price),
			minimum_qty = COALESCE($7, minimum_qty),
			updated_at = now()
		WHERE id = $1`,
		id, params.CategoryID, params.Name, params.Description,
		params.PriceType, params.BasePrice, params.MinimumQty)
	if err != nil {
		return domain.Internal(err, "catalog.update_product", "failed to update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ReplaceMatrix replaces the full price matrix of a matrix-priced product.
func (s *CatalogService) ReplaceMatrix(ctx context.Context, productID int64, entries []domain.MatrixEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "catalog.replace_matrix", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM price_matrix_entries WHERE product_id = $1`, productID); err != nil {
		return domain.Internal(err, "catalog.replace_matrix", "failed to clear matrix")
	}
	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO price_matrix_entries (product_id, width, height, price)
			VALUES ($1, $2, $3, $4)`, productID, e.Width, e.Height, e.Price); err != nil {
			return domain.Internal(err, "catalog.replace_matrix", "failed to insert matrix entry")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "catalog.replace_matrix", "failed to commit")
	}
	return nil
}

// ArchiveProduct soft-deletes a product (sets status to archived).
func (s *CatalogService) ArchiveProduct(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET status = 'archived', updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "catalog.archive_product", "failed to archive product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func validPriceType(t domain.PriceType) bool {
	switch t {
	case domain.PriceTypeSqm, domain.PriceTypeEach, domain.PriceTypeMatrix:
		return true
	}
	return false
}
