package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcommerce/internal/core/domain"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func seedCampaign(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.CreateCampaign(context.Background(), &domain.MarketingCampaign{
		ID: "c1", Name: "Summer", Status: domain.CampaignPlanned, StartDate: now, EndDate: now.AddDate(0, 1, 0),
	}))
}

func TestWithinTxRollsBack(t *testing.T) {
	s := NewStore()
	seedCampaign(t, s)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.GetCampaign(ctx, "c1")
		require.NoError(t, err)
		c.Status = domain.CampaignActive
		require.NoError(t, s.UpdateCampaign(ctx, c))
		require.NoError(t, s.CreateContent(ctx, &domain.ContentWorkflow{ID: "x", State: domain.StateDraft}))
		return errors.New("abort")
	})
	require.Error(t, err)

	c, err := s.GetCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignPlanned, c.Status)
	got, err := s.GetContent(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWithinTxNestedJoinsOuter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.WithinTx(ctx, func(ctx context.Context) error {
			return s.CreateContent(ctx, &domain.ContentWorkflow{ID: "inner"})
		}))
		return errors.New("outer fails")
	})
	require.Error(t, err)

	got, err := s.GetContent(ctx, "inner")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWithinTxCommits(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context) error {
		return s.CreateContent(ctx, &domain.ContentWorkflow{ID: "kept"})
	}))

	got, err := s.GetContent(ctx, "kept")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRollbackKeepsWritesFromOutsideTx(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	started := make(chan struct{})
	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, s.CreateContent(txCtx, &domain.ContentWorkflow{ID: "in-tx"}))
		wg.Add(1)
		go func() {
			defer wg.Done()
			close(started)
			assert.NoError(t, s.CreateContent(ctx, &domain.ContentWorkflow{ID: "other"}))
		}()
		<-started
		time.Sleep(20 * time.Millisecond)
		return errors.New("abort")
	})
	require.Error(t, err)
	wg.Wait()

	got, err := s.GetContent(ctx, "other")
	require.NoError(t, err)
	assert.NotNil(t, got)
	got, err = s.GetContent(ctx, "in-tx")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// Concurrent draws never oversell a bundle.
func TestConcurrentStockDraw(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateBundle(ctx, &domain.ProductBundle{
		ID: "b1", Name: "Pack", Availability: domain.BundleAvailability{StockQuantity: 5}, IsActive: true,
	}))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sold int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AdjustBundleStock(ctx, "b1", -1); err == nil {
				mu.Lock()
				sold++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, sold)
	b, err := s.GetBundle(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 0, b.Availability.StockQuantity)
}

func TestBundleAliasIsUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateBundle(ctx, &domain.ProductBundle{ID: "b1", Alias: "starter"}))

	err := s.CreateBundle(ctx, &domain.ProductBundle{ID: "b2", Alias: "starter"})

	assert.Equal(t, domain.CodeAliasAlreadyClaimed, domain.CodeOf(err))
	b, err := s.GetBundleByAlias(ctx, "starter")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)
}

func TestAttachBundleIsIdempotent(t *testing.T) {
	s := NewStore()
	seedCampaign(t, s)
	ctx := context.Background()
	require.NoError(t, s.CreateBundle(ctx, &domain.ProductBundle{ID: "b1", Name: "Pack"}))

	require.NoError(t, s.AttachBundle(ctx, "c1", "b1"))
	require.NoError(t, s.AttachBundle(ctx, "c1", "b1"))

	bundles, err := s.ListCampaignBundles(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, bundles, 1)
}

func TestMetricsWindow(t *testing.T) {
	s := NewStore()
	seedCampaign(t, s)
	ctx := context.Background()
	require.NoError(t, s.InsertMetrics(ctx, []domain.CampaignMetric{
		{CampaignID: "c1", Date: now.AddDate(0, 0, 1), Type: domain.MetricViews, Value: 2},
		{CampaignID: "c1", Date: now, Type: domain.MetricViews, Value: 1},
		{CampaignID: "c1", Date: now.AddDate(0, 0, 2), Type: domain.MetricViews, Value: 3},
	}))

	rows, err := s.ListMetrics(ctx, "c1", now, now.AddDate(0, 0, 2))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1.0, rows[0].Value)
	assert.ErrorIs(t, s.InsertMetrics(ctx, []domain.CampaignMetric{{CampaignID: "ghost"}}), domain.ErrNotFound)
}

func TestProductPricesOmitUnknownAndUnpriced(t *testing.T) {
	s := NewStore()
	s.PutProduct(domain.RawProduct{ID: "p1", Price: decimal.NewNullDecimal(decimal.NewFromInt(5))})
	s.PutProduct(domain.RawProduct{ID: "p2"})

	prices, err := s.GetProductPrices(context.Background(), []string{"p1", "p2", "p3"})

	require.NoError(t, err)
	assert.Len(t, prices, 1)
	assert.True(t, prices["p1"].Equal(decimal.NewFromInt(5)))
}

func TestGrantsAndRevoke(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.AssignRole(ctx, "u", domain.RoleContentEditor))

	ok, err := s.HasPermission(ctx, "u", domain.PermContentEdit)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.ElementsMatch(t, domain.RoleContentEditor.Permissions, s.Permissions("u"))

	s.Revoke("u")
	ok, err = s.HasPermission(ctx, "u", domain.PermContentEdit)
	require.NoError(t, err)
	assert.False(t, ok)
}
