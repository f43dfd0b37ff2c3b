package memory

import (
	"context"
	"fmt"
	"sort"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
)

// CreateContent implements port.ContentRepository.
func (s *Store) CreateContent(ctx context.Context, c *domain.ContentWorkflow) error {
	defer s.writeGuard(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contents[c.ID]; ok {
		return domain.Store("failed to create content", fmt.Errorf("duplicate id %s", c.ID))
	}
	s.contents[c.ID] = c.Clone()
	return nil
}

// GetContent implements port.ContentRepository.
func (s *Store) GetContent(_ context.Context, id string) (*domain.ContentWorkflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contents[id]
	if !ok {
		return nil, nil
	}
	out := c.Clone()
	return &out, nil
}

// UpdateContent implements port.ContentRepository.
func (s *Store) UpdateContent(ctx context.Context, c *domain.ContentWorkflow) error {
	defer s.writeGuard(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contents[c.ID]; !ok {
		return domain.NotFound("content", c.ID)
	}
	s.contents[c.ID] = c.Clone()
	return nil
}

// ListContent implements port.ContentRepository.
func (s *Store) ListContent(_ context.Context, f port.ContentFilter) ([]domain.ContentWorkflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ContentWorkflow, 0, len(s.contents))
	for _, c := range s.contents {
		if f.State != "" && c.State != f.State {
			continue
		}
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if f.Author != "" && c.Author != f.Author {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
