package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"mcommerce/internal/core/domain"
)

// InsertMetrics implements port.MetricRepository using COPY.
func (r *Repository) InsertMetrics(ctx context.Context, rows []domain.CampaignMetric) error {
	if len(rows) == 0 {
		return nil
	}
	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		m := rows[i]
		return []any{m.ID, m.CampaignID, m.Date, string(m.Type), m.Value, m.RecordedAt}, nil
	})
	cols := []string{"id", "campaign_id", "metric_date", "metric_type", "value", "recorded_at"}

	var err error
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"campaign_metrics"}, cols, src)
	} else {
		_, err = r.pool.CopyFrom(ctx, pgx.Identifier{"campaign_metrics"}, cols, src)
	}
	if err != nil {
		return domain.Store("failed to record metrics", err)
	}
	return nil
}

// ListMetrics implements port.MetricRepository.
func (r *Repository) ListMetrics(ctx context.Context, campaignID string, from, to time.Time) ([]domain.CampaignMetric, error) {
	args := []any{campaignID}
	query := `SELECT id, campaign_id, metric_date, metric_type, value, recorded_at FROM campaign_metrics WHERE campaign_id = $1`
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND metric_date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND metric_date < $%d", len(args))
	}
	query += " ORDER BY metric_date, recorded_at"

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Store("failed to load metrics", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CampaignMetric, error) {
		var m domain.CampaignMetric
		err := row.Scan(&m.ID, &m.CampaignID, &m.Date, &m.Type, &m.Value, &m.RecordedAt)
		return m, err
	})
	if err != nil {
		return nil, domain.Store("failed to load metrics", err)
	}
	return out, nil
}
