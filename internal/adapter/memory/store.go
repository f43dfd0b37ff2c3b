// Package memory is an in-process implementation of every repository port.
// It backs the "memory" store driver and the service tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"mcommerce/internal/core/domain"
)

type txKey struct{}

// Store keeps every entity in maps guarded by one RWMutex.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	contents        map[string]domain.ContentWorkflow
	campaigns       map[string]domain.MarketingCampaign
	campaignBundles map[string][]string
	bundles         map[string]domain.ProductBundle
	metrics         []domain.CampaignMetric
	products        map[string]domain.RawProduct
	categories      map[string]domain.RawCategory
	grants          map[string]map[domain.Permission]struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		contents:        make(map[string]domain.ContentWorkflow),
		campaigns:       make(map[string]domain.MarketingCampaign),
		campaignBundles: make(map[string][]string),
		bundles:         make(map[string]domain.ProductBundle),
		products:        make(map[string]domain.RawProduct),
		categories:      make(map[string]domain.RawCategory),
		grants:          make(map[string]map[domain.Permission]struct{}),
	}
}

// snapshot is a deep copy of the mutable state.
type snapshot struct {
	contents        map[string]domain.ContentWorkflow
	campaigns       map[string]domain.MarketingCampaign
	campaignBundles map[string][]string
	bundles         map[string]domain.ProductBundle
	metrics         []domain.CampaignMetric
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		contents:        make(map[string]domain.ContentWorkflow, len(s.contents)),
		campaigns:       make(map[string]domain.MarketingCampaign, len(s.campaigns)),
		campaignBundles: make(map[string][]string, len(s.campaignBundles)),
		bundles:         make(map[string]domain.ProductBundle, len(s.bundles)),
		metrics:         append([]domain.CampaignMetric(nil), s.metrics...),
	}
	for id, c := range s.contents {
		snap.contents[id] = c.Clone()
	}
	for id, c := range s.campaigns {
		snap.campaigns[id] = c.Clone()
	}
	for id, ids := range s.campaignBundles {
		snap.campaignBundles[id] = append([]string(nil), ids...)
	}
	for id, b := range s.bundles {
		snap.bundles[id] = b.Clone()
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contents = snap.contents
	s.campaigns = snap.campaigns
	s.campaignBundles = snap.campaignBundles
	s.bundles = snap.bundles
	s.metrics = snap.metrics
}

// writeGuard makes a write outside a transaction wait for the running
// transaction, so a rollback never discards it. Writes made with a
// transaction context pass straight through.
func (s *Store) writeGuard(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

// WithinTx runs fn with all-or-nothing semantics. Transactions are serialized
// with each other and with writes made outside them. A nested call joins the
// outer one.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.restore(snap)
			panic(r)
		}
		if err != nil {
			s.restore(snap)
		}
	}()
	return fn(context.WithValue(ctx, txKey{}, true))
}

// HasPermission implements port.PermissionChecker.
func (s *Store) HasPermission(_ context.Context, userID string, perm domain.Permission) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.grants[userID][perm]
	return ok, nil
}

// Grant gives userID the listed permissions.
func (s *Store) Grant(userID string, perms ...domain.Permission) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.grants[userID]
	if !ok {
		set = make(map[domain.Permission]struct{})
		s.grants[userID] = set
	}
	for _, p := range perms {
		set[p] = struct{}{}
	}
}

// AssignRole grants every permission of role to userID.
func (s *Store) AssignRole(_ context.Context, userID string, role domain.Role) error {
	s.Grant(userID, role.Permissions...)
	return nil
}

// Revoke removes every permission of userID.
func (s *Store) Revoke(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.grants, userID)
}

// Permissions lists the grants of userID.
func (s *Store) Permissions(userID string) []domain.Permission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Permission, 0, len(s.grants[userID]))
	for p := range maps.Keys(s.grants[userID]) {
		out = append(out, p)
	}
	return out
}
