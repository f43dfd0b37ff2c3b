package usecase

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"mcommerce/internal/adapter/querycache"
	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
)

// CatalogUseCase serves normalized catalog rows. Reads need no permission.
type CatalogUseCase struct {
	repo port.CatalogRepository
	deps
}

// NewCatalogUseCase creates the catalog service.
func NewCatalogUseCase(repo port.CatalogRepository, opts ...Option) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, deps: newDeps(nil, opts)}
}

// Products lists normalized products matching f.
func (u *CatalogUseCase) Products(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	key := keyProducts.With("list", f.CategoryID, strings.ToLower(strings.TrimSpace(f.Search)),
		strconv.FormatBool(f.ActiveOnly), strconv.Itoa(f.Limit), strconv.Itoa(f.Offset))
	return querycache.Fetch(ctx, u.cache, key, func(ctx context.Context) ([]domain.Product, error) {
		rows, err := u.repo.ListProducts(ctx, f)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Product, 0, len(rows))
		for _, r := range rows {
			out = append(out, domain.NormalizeProduct(r))
		}
		return out, nil
	})
}

// Product returns one normalized product.
func (u *CatalogUseCase) Product(ctx context.Context, id string) (*domain.Product, error) {
	return querycache.Fetch(ctx, u.cache, keyProducts.With("detail", id), func(ctx context.Context) (*domain.Product, error) {
		r, err := u.repo.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, domain.NotFound("product", id)
		}
		p := domain.NormalizeProduct(*r)
		return &p, nil
	})
}

// Categories lists every category in display order.
func (u *CatalogUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	return querycache.Fetch(ctx, u.cache, keyCategories.With("list"), func(ctx context.Context) ([]domain.Category, error) {
		rows, err := u.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Category, 0, len(rows))
		for _, r := range rows {
			out = append(out, domain.NormalizeCategory(r))
		}
		return out, nil
	})
}

// ProductPrices returns the unit price of every id. An id without a price is
// a not-found error.
func (u *CatalogUseCase) ProductPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	prices, err := querycache.Fetch(ctx, u.cache, keyProducts.With("prices").With(sorted...),
		func(ctx context.Context) (map[string]decimal.Decimal, error) {
			return u.repo.GetProductPrices(ctx, sorted)
		})
	if err != nil {
		return nil, err
	}
	for _, id := range sorted {
		if _, ok := prices[id]; !ok {
			return nil, domain.NotFound("product", id)
		}
	}
	return prices, nil
}
