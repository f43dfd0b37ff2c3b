package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
)

const campaignColumns = `id, name, description, campaign_type, start_date, end_date, discount_percentage, status,
       target_audience, content_ids, budget_total, budget_spent, budget_currency, created_at, updated_at`

func scanCampaign(row pgx.Row) (domain.MarketingCampaign, error) {
	var (
		c           domain.MarketingCampaign
		audience    []byte
		budgetTotal decimal.NullDecimal
		budgetSpent decimal.NullDecimal
		currency    *string
	)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Type,
		&c.StartDate,
		&c.EndDate,
		&c.DiscountPercentage,
		&c.Status,
		&audience,
		&c.ContentIDs,
		&budgetTotal,
		&budgetSpent,
		&currency,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}
	if len(audience) > 0 {
		if err = json.Unmarshal(audience, &c.TargetAudience); err != nil {
			return c, fmt.Errorf("decode target audience: %w", err)
		}
	}
	if budgetTotal.Valid && currency != nil {
		c.Budget = &domain.Budget{
			Total:    budgetTotal.Decimal,
			Spent:    budgetSpent.Decimal,
			Currency: strings.TrimSpace(*currency),
		}
	}
	return c, nil
}

// budgetArgs flattens the optional budget into nullable columns.
func budgetArgs(b *domain.Budget) (decimal.NullDecimal, decimal.NullDecimal, *string) {
	if b == nil {
		return decimal.NullDecimal{}, decimal.NullDecimal{}, nil
	}
	currency := b.Currency
	return decimal.NewNullDecimal(b.Total), decimal.NewNullDecimal(b.Spent), &currency
}

// CreateCampaign implements port.CampaignRepository.
func (r *Repository) CreateCampaign(ctx context.Context, c *domain.MarketingCampaign) error {
	audience, err := json.Marshal(c.TargetAudience)
	if err != nil {
		return domain.Store("failed to create campaign", err)
	}
	total, spent, currency := budgetArgs(c.Budget)
	_, err = r.conn(ctx).Exec(ctx, `INSERT INTO campaigns (`+campaignColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		c.ID, c.Name, c.Description, string(c.Type), c.StartDate, c.EndDate, c.DiscountPercentage, string(c.Status),
		audience, nonNil(c.ContentIDs), total, spent, currency, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return domain.Store("failed to create campaign", err)
	}
	return nil
}

// GetCampaign implements port.CampaignRepository.
func (r *Repository) GetCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error) {
	c, err := scanCampaign(r.conn(ctx).QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Store("failed to load campaign", err)
	}
	return &c, nil
}

// UpdateCampaign implements port.CampaignRepository.
func (r *Repository) UpdateCampaign(ctx context.Context, c *domain.MarketingCampaign) error {
	audience, err := json.Marshal(c.TargetAudience)
	if err != nil {
		return domain.Store("failed to update campaign", err)
	}
	total, spent, currency := budgetArgs(c.Budget)
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE campaigns
SET name = $2, description = $3, start_date = $4, end_date = $5, discount_percentage = $6, status = $7,
    target_audience = $8, content_ids = $9, budget_total = $10, budget_spent = $11, budget_currency = $12,
    updated_at = $13
WHERE id = $1`,
		c.ID, c.Name, c.Description, c.StartDate, c.EndDate, c.DiscountPercentage, string(c.Status),
		audience, nonNil(c.ContentIDs), total, spent, currency, c.UpdatedAt)
	if err != nil {
		return domain.Store("failed to update campaign", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("campaign", c.ID)
	}
	return nil
}

// ListCampaigns implements port.CampaignRepository.
func (r *Repository) ListCampaigns(ctx context.Context, f port.CampaignFilter) ([]domain.MarketingCampaign, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, fmt.Sprintf("campaign_type = $%d", len(args)))
	}
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date, id"

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Store("failed to list campaigns", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MarketingCampaign, error) {
		return scanCampaign(row)
	})
	if err != nil {
		return nil, domain.Store("failed to list campaigns", err)
	}
	return out, nil
}

// AttachBundle implements port.CampaignRepository.
func (r *Repository) AttachBundle(ctx context.Context, campaignID, bundleID string) error {
	return r.WithinTx(ctx, func(ctx context.Context) error {
		q := r.conn(ctx)
		var campaignExists, bundleExists bool
		err := q.QueryRow(ctx, `SELECT
    EXISTS (SELECT 1 FROM campaigns WHERE id = $1),
    EXISTS (SELECT 1 FROM bundles WHERE id = $2)`, campaignID, bundleID).Scan(&campaignExists, &bundleExists)
		if err != nil {
			return domain.Store("failed to attach bundle", err)
		}
		if !campaignExists {
			return domain.NotFound("campaign", campaignID)
		}
		if !bundleExists {
			return domain.NotFound("bundle", bundleID)
		}
		_, err = q.Exec(ctx, `INSERT INTO campaign_bundles (campaign_id, bundle_id, attached_at)
VALUES ($1, $2, clock_timestamp()) ON CONFLICT DO NOTHING`, campaignID, bundleID)
		if err != nil {
			return domain.Store("failed to attach bundle", err)
		}
		return nil
	})
}

// ListCampaignBundles implements port.CampaignRepository.
func (r *Repository) ListCampaignBundles(ctx context.Context, campaignID string) ([]domain.ProductBundle, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+prefixed("b", bundleColumns)+`
FROM campaign_bundles cb
JOIN bundles b ON b.id = cb.bundle_id
WHERE cb.campaign_id = $1
ORDER BY cb.attached_at, b.id`, campaignID)
	if err != nil {
		return nil, domain.Store("failed to list campaign bundles", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ProductBundle, error) {
		return scanBundle(row)
	})
	if err != nil {
		return nil, domain.Store("failed to list campaign bundles", err)
	}
	return out, nil
}
