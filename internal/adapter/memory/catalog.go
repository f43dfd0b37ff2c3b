package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"mcommerce/internal/core/domain"
)

// PutProduct inserts or replaces a catalog row.
func (s *Store) PutProduct(p domain.RawProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = p
}

// PutCategory inserts or replaces a category row.
func (s *Store) PutCategory(c domain.RawCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[c.ID] = c
}

// UpsertProduct stores a catalog row.
func (s *Store) UpsertProduct(_ context.Context, p domain.RawProduct) error {
	s.PutProduct(p)
	return nil
}

// UpsertCategory stores a category row.
func (s *Store) UpsertCategory(_ context.Context, c domain.RawCategory) error {
	s.PutCategory(c)
	return nil
}

// ListProducts implements port.CatalogRepository.
func (s *Store) ListProducts(_ context.Context, f domain.ProductFilter) ([]domain.RawProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.RawProduct, 0, len(s.products))
	for _, p := range s.products {
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.ActiveOnly && p.IsActive != nil && !*p.IsActive {
			continue
		}
		if search != "" && (p.Name == nil || !strings.Contains(strings.ToLower(*p.Name), search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []domain.RawProduct{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

// GetProduct implements port.CatalogRepository.
func (s *Store) GetProduct(_ context.Context, id string) (*domain.RawProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetProductPrices implements port.CatalogRepository.
func (s *Store) GetProductPrices(_ context.Context, ids []string) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok && p.Price.Valid {
			out[id] = p.Price.Decimal
		}
	}
	return out, nil
}

// ListCategories implements port.CatalogRepository.
func (s *Store) ListCategories(_ context.Context) ([]domain.RawCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RawCategory, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := 0, 0
		if out[i].SortOrder != nil {
			oi = *out[i].SortOrder
		}
		if out[j].SortOrder != nil {
			oj = *out[j].SortOrder
		}
		if oi == oj {
			return out[i].ID < out[j].ID
		}
		return oi < oj
	})
	return out, nil
}
