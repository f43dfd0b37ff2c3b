package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
)

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestQuoteBundlePercentage(t *testing.T) {
	f := newFixture(t)

	p, err := f.bundles.QuoteBundle(f.ctx, bundleInput("").Quote())

	require.NoError(t, err)
	requireDecimal(t, "149.98", p.BasePrice)
	requireDecimal(t, "134.982", p.FinalPrice)
	requireDecimal(t, "14.998", p.Savings)
	requireDecimal(t, "10", p.SavingsPercentage)
}

func TestQuoteBundleUnknownProduct(t *testing.T) {
	f := newFixture(t)
	in := bundleInput("").Quote()
	in.Items[1].ProductID = "ghost"

	_, err := f.bundles.QuoteBundle(f.ctx, in)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBundleNeedsTwoProducts(t *testing.T) {
	f := newFixture(t)
	in := bundleInput("")
	in.Items = []port.BundleItemInput{{ProductID: "p1", Quantity: 3}}

	_, err := f.bundles.CreateBundle(f.ctx, in)

	require.Error(t, err)
	assert.Equal(t, domain.CodeBundleTooFew, domain.CodeOf(err))
}

func TestCreateBundleWithoutDiscountIsRejected(t *testing.T) {
	f := newFixture(t)
	in := bundleInput("")
	in.DiscountValue = decimal.Zero

	_, err := f.bundles.CreateBundle(f.ctx, in)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot exceed sum of individual product prices")
}

func TestCreateBundleFixedDiscountFloors(t *testing.T) {
	f := newFixture(t)
	in := bundleInput("")
	in.DiscountType = domain.DiscountFixed
	in.DiscountValue = decimal.NewFromInt(500)

	b, err := f.bundles.CreateBundle(f.ctx, in)

	require.NoError(t, err)
	requireDecimal(t, "0.01", b.Pricing.FinalPrice)
}

func TestCreateBundleRejectsTakenAlias(t *testing.T) {
	f := newFixture(t)
	_, err := f.bundles.CreateBundle(f.ctx, bundleInput("starter"))
	require.NoError(t, err)

	_, err = f.bundles.CreateBundle(f.ctx, bundleInput("starter"))

	assert.Equal(t, domain.CodeAliasAlreadyClaimed, domain.CodeOf(err))

	found, err := f.bundles.FindBundleByAlias(f.ctx, " starter ")
	require.NoError(t, err)
	assert.Equal(t, "starter", found.Alias)

	_, err = f.bundles.FindBundleByAlias(f.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t)
	b, err := f.bundles.CreateBundle(f.ctx, bundleInput(""))
	require.NoError(t, err)

	b, err = f.bundles.AdjustStock(f.ctx, b.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Availability.StockQuantity)

	_, err = f.bundles.AdjustStock(f.ctx, b.ID, -5)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.bundles.GetBundle(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Availability.StockQuantity)
}

func TestCloneBundleDropsAlias(t *testing.T) {
	f := newFixture(t)
	src, err := f.bundles.CreateBundle(f.ctx, bundleInput("starter"))
	require.NoError(t, err)

	clone, err := f.bundles.CloneBundle(f.ctx, src.ID)

	require.NoError(t, err)
	assert.NotEqual(t, src.ID, clone.ID)
	assert.Empty(t, clone.Alias)
	assert.True(t, clone.Pricing.FinalPrice.Equal(src.Pricing.FinalPrice))

	all, err := f.bundles.ListBundles(f.ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
