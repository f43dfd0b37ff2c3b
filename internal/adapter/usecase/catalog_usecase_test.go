package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcommerce/internal/core/domain"
)

func TestProductIsNormalizedAndCached(t *testing.T) {
	f := newFixture(t)

	p, err := f.catalog.Product(f.ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.NotNil(t, p.Tags)

	f.store.PutProduct(rawProduct("p1", "Renamed", "1.00"))
	p, err = f.catalog.Product(f.ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Wireless headphones", p.Name)
}

func TestProductNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.Product(f.ctx, "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductsListFilters(t *testing.T) {
	f := newFixture(t)

	all, err := f.catalog.Products(f.ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := f.catalog.Products(f.ctx, domain.ProductFilter{Search: "CASE"})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "p2", page[0].ID)
}

func TestProductPricesDedupsAndRequiresEveryID(t *testing.T) {
	f := newFixture(t)

	prices, err := f.catalog.ProductPrices(f.ctx, []string{"p2", "p1", "p2"})
	require.NoError(t, err)
	assert.Len(t, prices, 2)

	_, err = f.catalog.ProductPrices(f.ctx, []string{"p1", "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
