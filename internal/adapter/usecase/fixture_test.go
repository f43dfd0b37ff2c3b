package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"mcommerce/internal/adapter/memory"
	"mcommerce/internal/adapter/querycache"
	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/requestctx"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

const manager = "manager"

// fixture wires every service to one memory store, a fixed clock and
// sequential ids.
type fixture struct {
	store     *memory.Store
	cache     *querycache.Cache
	contents  *ContentUseCase
	campaigns *CampaignUseCase
	bundles   *BundleUseCase
	analytics *AnalyticsUseCase
	catalog   *CatalogUseCase
	launch    *LaunchUseCase
	ctx       context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.AssignRole(context.Background(), manager, domain.RoleMarketingManager))
	store.PutProduct(rawProduct("p1", "Wireless headphones", "99.99"))
	store.PutProduct(rawProduct("p2", "Charging case", "49.99"))
	store.PutProduct(rawProduct("p3", "Ear tips", "9.99"))

	cache := querycache.New(querycache.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = cache.Close() })

	seq := 0
	opts := []Option{
		WithCache(cache),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	svc := NewServices(store, opts...)
	f := &fixture{
		store:     store,
		cache:     cache,
		contents:  svc.Contents,
		campaigns: svc.Campaigns,
		bundles:   svc.Bundles,
		analytics: svc.Analytics,
		catalog:   svc.Catalog,
		launch:    svc.Launch,
	}
	f.ctx = requestctx.WithUserID(context.Background(), manager)
	return f
}

func rawProduct(id, name, price string) domain.RawProduct {
	return domain.RawProduct{
		ID:    id,
		Name:  &name,
		Price: decimal.NewNullDecimal(decimal.RequireFromString(price)),
	}
}

// draftContent creates a draft ready to leave the draft state.
func (f *fixture) draftContent(t *testing.T) string {
	t.Helper()
	c, err := f.contents.CreateContent(f.ctx, port.CreateContentInput{
		Title: "T",
		Type:  domain.ContentEmail,
		Body:  "Summer sale starts now",
	})
	require.NoError(t, err)
	return c.ID
}

// approvedContent walks a new draft through review to approved.
func (f *fixture) approvedContent(t *testing.T) string {
	t.Helper()
	id := f.draftContent(t)
	_, err := f.contents.TransitionContent(f.ctx, id, domain.StateReview)
	require.NoError(t, err)
	_, err = f.contents.TransitionContent(f.ctx, id, domain.StateApproved)
	require.NoError(t, err)
	return id
}

func (f *fixture) newCampaign(t *testing.T, contentIDs ...string) *domain.MarketingCampaign {
	t.Helper()
	c, err := f.campaigns.CreateCampaign(f.ctx, port.CreateCampaignInput{
		Name:               "Summer launch",
		Type:               domain.CampaignPromotional,
		StartDate:          fixedNow,
		EndDate:            fixedNow.AddDate(0, 1, 0),
		DiscountPercentage: 10,
		ContentIDs:         contentIDs,
	})
	require.NoError(t, err)
	return c
}

func bundleInput(alias string) port.CreateBundleInput {
	return port.CreateBundleInput{
		Alias: alias,
		Name:  "Audio starter pack",
		Items: []port.BundleItemInput{
			{ProductID: "p1", Quantity: 1, IsRequired: true},
			{ProductID: "p2", Quantity: 1},
		},
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		StockQuantity: 5,
	}
}
