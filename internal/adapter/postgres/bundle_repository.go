package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"mcommerce/internal/core/domain"
)

const bundleColumns = `id, alias, name, description, items, base_price, discount_type, discount_value, final_price,
       savings, savings_percentage, start_date, end_date, stock_quantity, max_per_customer, tags, is_active,
       created_at, updated_at`

const uniqueViolation = "23505"

// prefixed qualifies every column of a list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func scanBundle(row pgx.Row) (domain.ProductBundle, error) {
	var (
		b     domain.ProductBundle
		alias *string
		items []byte
	)
	err := row.Scan(
		&b.ID,
		&alias,
		&b.Name,
		&b.Description,
		&items,
		&b.Pricing.BasePrice,
		&b.Pricing.DiscountType,
		&b.Pricing.DiscountValue,
		&b.Pricing.FinalPrice,
		&b.Pricing.Savings,
		&b.Pricing.SavingsPercentage,
		&b.Availability.StartDate,
		&b.Availability.EndDate,
		&b.Availability.StockQuantity,
		&b.Availability.MaxPerCustomer,
		&b.Tags,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return b, err
	}
	if alias != nil {
		b.Alias = *alias
	}
	if err = json.Unmarshal(items, &b.Items); err != nil {
		return b, fmt.Errorf("decode bundle items: %w", err)
	}
	return b, nil
}

// CreateBundle implements port.BundleRepository.
func (r *Repository) CreateBundle(ctx context.Context, b *domain.ProductBundle) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return domain.Store("failed to create bundle", err)
	}
	var alias *string
	if b.Alias != "" {
		alias = &b.Alias
	}
	p := b.Pricing
	_, err = r.conn(ctx).Exec(ctx, `INSERT INTO bundles (`+bundleColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		b.ID, alias, b.Name, b.Description, items,
		p.BasePrice, string(p.DiscountType), p.DiscountValue, p.FinalPrice, p.Savings, p.SavingsPercentage,
		b.Availability.StartDate, b.Availability.EndDate, b.Availability.StockQuantity, b.Availability.MaxPerCustomer,
		nonNil(b.Tags), b.IsActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && alias != nil {
			return domain.StateError(domain.CodeAliasAlreadyClaimed,
				fmt.Sprintf("bundle alias %s is already in use", b.Alias), "", "")
		}
		return domain.Store("failed to create bundle", err)
	}
	return nil
}

// GetBundle implements port.BundleRepository.
func (r *Repository) GetBundle(ctx context.Context, id string) (*domain.ProductBundle, error) {
	return r.getBundleWhere(ctx, "id", id)
}

// GetBundleByAlias implements port.BundleRepository.
func (r *Repository) GetBundleByAlias(ctx context.Context, alias string) (*domain.ProductBundle, error) {
	return r.getBundleWhere(ctx, "alias", alias)
}

func (r *Repository) getBundleWhere(ctx context.Context, column, value string) (*domain.ProductBundle, error) {
	b, err := scanBundle(r.conn(ctx).QueryRow(ctx, `SELECT `+bundleColumns+` FROM bundles WHERE `+column+` = $1`, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Store("failed to load bundle", err)
	}
	return &b, nil
}

// ListBundles implements port.BundleRepository.
func (r *Repository) ListBundles(ctx context.Context, activeOnly bool) ([]domain.ProductBundle, error) {
	query := `SELECT ` + bundleColumns + ` FROM bundles`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name, id`
	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, domain.Store("failed to list bundles", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ProductBundle, error) {
		return scanBundle(row)
	})
	if err != nil {
		return nil, domain.Store("failed to list bundles", err)
	}
	return out, nil
}

// AdjustBundleStock implements port.BundleRepository through the
// adjust_bundle_stock stored function.
func (r *Repository) AdjustBundleStock(ctx context.Context, id string, delta int) (int, error) {
	q := r.conn(ctx)
	var stock *int
	if err := q.QueryRow(ctx, `SELECT adjust_bundle_stock($1, $2)`, id, delta).Scan(&stock); err != nil {
		return 0, domain.Store("failed to adjust bundle stock", err)
	}
	if stock != nil {
		return *stock, nil
	}
	// NULL means missing or over-draw; tell them apart.
	var current int
	err := q.QueryRow(ctx, `SELECT stock_quantity FROM bundles WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.NotFound("bundle", id)
	}
	if err != nil {
		return 0, domain.Store("failed to adjust bundle stock", err)
	}
	return current, domain.StateError(domain.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for bundle %s: have %d, requested %d", id, current, -delta), "", "")
}
