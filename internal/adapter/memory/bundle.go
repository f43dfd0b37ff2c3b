package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mcommerce/internal/core/domain"
)

// CreateBundle implements port.BundleRepository.
func (s *Store) CreateBundle(ctx context.Context, b *domain.ProductBundle) error {
	defer s.writeGuard(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bundles[b.ID]; ok {
		return domain.Store("failed to create bundle", fmt.Errorf("duplicate id %s", b.ID))
	}
	if b.Alias != "" {
		for _, existing := range s.bundles {
			if existing.Alias == b.Alias {
				return domain.StateError(domain.CodeAliasAlreadyClaimed,
					fmt.Sprintf("bundle alias %s is already in use", b.Alias), "", "")
			}
		}
	}
	s.bundles[b.ID] = b.Clone()
	return nil
}

// GetBundle implements port.BundleRepository.
func (s *Store) GetBundle(_ context.Context, id string) (*domain.ProductBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bundles[id]
	if !ok {
		return nil, nil
	}
	out := b.Clone()
	return &out, nil
}

// GetBundleByAlias implements port.BundleRepository.
func (s *Store) GetBundleByAlias(_ context.Context, alias string) (*domain.ProductBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bundles {
		if alias != "" && b.Alias == alias {
			out := b.Clone()
			return &out, nil
		}
	}
	return nil, nil
}

// ListBundles implements port.BundleRepository.
func (s *Store) ListBundles(_ context.Context, activeOnly bool) ([]domain.ProductBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ProductBundle, 0, len(s.bundles))
	for _, b := range s.bundles {
		if activeOnly && !b.IsActive {
			continue
		}
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AdjustBundleStock implements port.BundleRepository.
func (s *Store) AdjustBundleStock(ctx context.Context, id string, delta int) (int, error) {
	defer s.writeGuard(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bundles[id]
	if !ok {
		return 0, domain.NotFound("bundle", id)
	}
	if err := b.AdjustStock(delta, time.Now().UTC()); err != nil {
		return b.Availability.StockQuantity, err
	}
	s.bundles[id] = b
	return b.Availability.StockQuantity, nil
}
