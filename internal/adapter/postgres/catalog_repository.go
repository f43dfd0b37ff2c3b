package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"mcommerce/internal/core/domain"
)

const productColumns = `id, name, description, price, category_id, image_url, stock, is_active, tags, created_at, updated_at`

func scanProduct(row pgx.Row) (domain.RawProduct, error) {
	var p domain.RawProduct
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.CategoryID,
		&p.ImageURL,
		&p.Stock,
		&p.IsActive,
		&p.Tags,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// ListProducts implements port.CatalogRepository.
func (r *Repository) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.RawProduct, error) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.ActiveOnly {
		where = append(where, "COALESCE(is_active, TRUE)")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Store("failed to list products", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RawProduct, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, domain.Store("failed to list products", err)
	}
	return out, nil
}

// GetProduct implements port.CatalogRepository.
func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.RawProduct, error) {
	p, err := scanProduct(r.conn(ctx).QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Store("failed to load product", err)
	}
	return &p, nil
}

// GetProductPrices implements port.CatalogRepository.
func (r *Repository) GetProductPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, price FROM products WHERE id = ANY($1) AND price IS NOT NULL`, ids)
	if err != nil {
		return nil, domain.Store("failed to load product prices", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal, len(ids))
	for rows.Next() {
		var (
			id    string
			price decimal.Decimal
		)
		if err = rows.Scan(&id, &price); err != nil {
			return nil, domain.Store("failed to load product prices", err)
		}
		out[id] = price
	}
	if err = rows.Err(); err != nil {
		return nil, domain.Store("failed to load product prices", err)
	}
	return out, nil
}

// ListCategories implements port.CatalogRepository.
func (r *Repository) ListCategories(ctx context.Context) ([]domain.RawCategory, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, name, description, parent_id, sort_order, is_active
FROM categories ORDER BY COALESCE(sort_order, 0), id`)
	if err != nil {
		return nil, domain.Store("failed to list categories", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RawCategory, error) {
		var c domain.RawCategory
		err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.SortOrder, &c.IsActive)
		return c, err
	})
	if err != nil {
		return nil, domain.Store("failed to list categories", err)
	}
	return out, nil
}

// UpsertProduct writes a catalog row. Used by the seed.
func (r *Repository) UpsertProduct(ctx context.Context, p domain.RawProduct) error {
	_, err := r.conn(ctx).Exec(ctx, `INSERT INTO products (`+productColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
    category_id = EXCLUDED.category_id, image_url = EXCLUDED.image_url, stock = EXCLUDED.stock,
    is_active = EXCLUDED.is_active, tags = EXCLUDED.tags, updated_at = EXCLUDED.updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.CategoryID, p.ImageURL, p.Stock, p.IsActive, nonNil(p.Tags), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return domain.Store("failed to save product", err)
	}
	return nil
}

// UpsertCategory writes a category row. Used by the seed.
func (r *Repository) UpsertCategory(ctx context.Context, c domain.RawCategory) error {
	_, err := r.conn(ctx).Exec(ctx, `INSERT INTO categories (id, name, description, parent_id, sort_order, is_active)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name, description = EXCLUDED.description, parent_id = EXCLUDED.parent_id,
    sort_order = EXCLUDED.sort_order, is_active = EXCLUDED.is_active`,
		c.ID, c.Name, c.Description, c.ParentID, c.SortOrder, c.IsActive)
	if err != nil {
		return domain.Store("failed to save category", err)
	}
	return nil
}
