package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
)

// CreateCampaign implements port.CampaignRepository.
func (s *Store) CreateCampaign(ctx context.Context, c *domain.MarketingCampaign) error {
	defer s.writeGuard(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campaigns[c.ID]; ok {
		return domain.Store("failed to create campaign", fmt.Errorf("duplicate id %s", c.ID))
	}
	s.campaigns[c.ID] = c.Clone()
	return nil
}

// GetCampaign implements port.CampaignRepository.
func (s *Store) GetCampaign(_ context.Context, id string) (*domain.MarketingCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, nil
	}
	out := c.Clone()
	return &out, nil
}

// UpdateCampaign implements port.CampaignRepository.
func (s *Store) UpdateCampaign(ctx context.Context, c *domain.MarketingCampaign) error {
	defer s.writeGuard(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campaigns[c.ID]; !ok {
		return domain.NotFound("campaign", c.ID)
	}
	s.campaigns[c.ID] = c.Clone()
	return nil
}

// ListCampaigns implements port.CampaignRepository.
func (s *Store) ListCampaigns(_ context.Context, f port.CampaignFilter) ([]domain.MarketingCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MarketingCampaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

// AttachBundle implements port.CampaignRepository.
func (s *Store) AttachBundle(ctx context.Context, campaignID, bundleID string) error {
	defer s.writeGuard(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campaigns[campaignID]; !ok {
		return domain.NotFound("campaign", campaignID)
	}
	if _, ok := s.bundles[bundleID]; !ok {
		return domain.NotFound("bundle", bundleID)
	}
	if slices.Contains(s.campaignBundles[campaignID], bundleID) {
		return nil
	}
	s.campaignBundles[campaignID] = append(s.campaignBundles[campaignID], bundleID)
	return nil
}

// ListCampaignBundles implements port.CampaignRepository.
func (s *Store) ListCampaignBundles(_ context.Context, campaignID string) ([]domain.ProductBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.campaignBundles[campaignID]
	out := make([]domain.ProductBundle, 0, len(ids))
	for _, id := range ids {
		if b, ok := s.bundles[id]; ok {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}
