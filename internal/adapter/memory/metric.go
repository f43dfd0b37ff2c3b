package memory

import (
	"context"
	"sort"
	"time"

	"mcommerce/internal/core/domain"
)

// InsertMetrics implements port.MetricRepository.
func (s *Store) InsertMetrics(ctx context.Context, rows []domain.CampaignMetric) error {
	defer s.writeGuard(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rows {
		if _, ok := s.campaigns[r.CampaignID]; !ok {
			return domain.NotFound("campaign", r.CampaignID)
		}
	}
	s.metrics = append(s.metrics, rows...)
	return nil
}

// ListMetrics implements port.MetricRepository.
func (s *Store) ListMetrics(_ context.Context, campaignID string, from, to time.Time) ([]domain.CampaignMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CampaignMetric
	for _, m := range s.metrics {
		if m.CampaignID != campaignID {
			continue
		}
		if !from.IsZero() && m.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !m.Date.Before(to) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
