package usecase

import (
	"context"
	"time"

	"mcommerce/internal/adapter/querycache"
	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/core/validate"
)

// AnalyticsUseCase implements port.AnalyticsUseCase.
type AnalyticsUseCase struct {
	repo      port.MetricRepository
	campaigns port.CampaignRepository
	deps
}

// NewAnalyticsUseCase creates the analytics service.
func NewAnalyticsUseCase(repo port.MetricRepository, campaigns port.CampaignRepository, perms port.PermissionChecker, opts ...Option) *AnalyticsUseCase {
	return &AnalyticsUseCase{repo: repo, campaigns: campaigns, deps: newDeps(perms, opts)}
}

func day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// RecordMetric appends one metric row for an existing campaign.
func (u *AnalyticsUseCase) RecordMetric(ctx context.Context, in port.RecordMetricInput) (*domain.CampaignMetric, error) {
	if _, err := u.authorize(ctx, domain.PermAnalyticsWrite); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := u.requireCampaign(ctx, in.CampaignID); err != nil {
		return nil, err
	}
	now := u.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	m := domain.CampaignMetric{
		ID:         u.newID(),
		CampaignID: in.CampaignID,
		Date:       day(date),
		Type:       in.Type,
		Value:      in.Value,
		RecordedAt: now,
	}
	if err := u.repo.InsertMetrics(ctx, []domain.CampaignMetric{m}); err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyMetrics.With(in.CampaignID))
	return &m, nil
}

func (u *AnalyticsUseCase) requireCampaign(ctx context.Context, id string) error {
	c, err := u.campaigns.GetCampaign(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("campaign", id)
	}
	return nil
}

// CampaignSummary aggregates the metrics of a campaign over [from, to).
// Zero bounds are open.
func (u *AnalyticsUseCase) CampaignSummary(ctx context.Context, campaignID string, from, to time.Time) (*domain.MetricSummary, error) {
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return nil, domain.ValidationFailed("invalid input",
			domain.FieldError{Field: "to", Message: "must be after from"})
	}
	key := keyMetrics.With(campaignID, "summary", boundKey(from), boundKey(to))
	return querycache.Fetch(ctx, u.cache, key, func(ctx context.Context) (*domain.MetricSummary, error) {
		if err := u.requireCampaign(ctx, campaignID); err != nil {
			return nil, err
		}
		rows, err := u.repo.ListMetrics(ctx, campaignID, from, to)
		if err != nil {
			return nil, err
		}
		s := domain.Summarize(campaignID, rows)
		return &s, nil
	})
}

func boundKey(t time.Time) string {
	if t.IsZero() {
		return "open"
	}
	return t.UTC().Format(time.RFC3339)
}

// StartTracking opens the metric series of a campaign.
func (u *AnalyticsUseCase) StartTracking(ctx context.Context, campaignID string) error {
	if _, err := u.authorize(ctx, domain.PermAnalyticsWrite); err != nil {
		return err
	}
	if err := u.requireCampaign(ctx, campaignID); err != nil {
		return err
	}
	return u.startTracking(ctx, campaignID)
}

// startTracking writes a zero row per metric type for today so the series
// is visible before the first event arrives.
func (u *AnalyticsUseCase) startTracking(ctx context.Context, campaignID string) error {
	now := u.now()
	rows := make([]domain.CampaignMetric, 0, len(domain.MetricTypes))
	for _, t := range domain.MetricTypes {
		rows = append(rows, domain.CampaignMetric{
			ID:         u.newID(),
			CampaignID: campaignID,
			Date:       day(now),
			Type:       t,
			RecordedAt: now,
		})
	}
	if err := u.repo.InsertMetrics(ctx, rows); err != nil {
		return err
	}
	u.invalidate(ctx, keyMetrics.With(campaignID))
	return nil
}
