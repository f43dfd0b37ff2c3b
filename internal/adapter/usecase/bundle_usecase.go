package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"mcommerce/internal/adapter/querycache"
	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/core/validate"
)

// priceSource resolves catalog prices for bundle items.
type priceSource interface {
	ProductPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
}

// BundleUseCase implements port.BundleUseCase.
type BundleUseCase struct {
	repo   port.BundleRepository
	prices priceSource
	deps
}

// NewBundleUseCase creates the bundle service. Prices normally come from a
// *CatalogUseCase.
func NewBundleUseCase(repo port.BundleRepository, prices priceSource, perms port.PermissionChecker, opts ...Option) *BundleUseCase {
	return &BundleUseCase{repo: repo, prices: prices, deps: newDeps(perms, opts)}
}

// QuoteBundle prices a prospective bundle from current catalog prices.
func (u *BundleUseCase) QuoteBundle(ctx context.Context, in port.QuoteBundleInput) (*domain.BundlePricing, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	pricing, err := u.quote(ctx, in)
	if err != nil {
		return nil, err
	}
	return &pricing, nil
}

func (u *BundleUseCase) quote(ctx context.Context, in port.QuoteBundleInput) (domain.BundlePricing, error) {
	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	prices, err := u.prices.ProductPrices(ctx, ids)
	if err != nil {
		return domain.BundlePricing{}, err
	}
	lines := make([]domain.PriceLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, domain.PriceLine{ProductID: it.ProductID, UnitPrice: prices[it.ProductID], Quantity: it.Quantity})
	}
	return domain.CalculatePricing(lines, in.DiscountType, in.DiscountValue), nil
}

// CreateBundle prices and stores a new bundle.
func (u *BundleUseCase) CreateBundle(ctx context.Context, in port.CreateBundleInput) (*domain.ProductBundle, error) {
	if _, err := u.authorize(ctx, domain.PermBundleManage); err != nil {
		return nil, err
	}
	b, err := u.create(ctx, in)
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyBundles.With("list"))
	return b, nil
}

func (u *BundleUseCase) create(ctx context.Context, in port.CreateBundleInput) (*domain.ProductBundle, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	pricing, err := u.quote(ctx, in.Quote())
	if err != nil {
		return nil, err
	}
	items := make([]domain.BundleItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, domain.BundleItem{ProductID: it.ProductID, Quantity: it.Quantity, IsRequired: it.IsRequired})
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := u.now()
	b := &domain.ProductBundle{
		ID:          u.newID(),
		Alias:       strings.TrimSpace(in.Alias),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Items:       items,
		Pricing:     pricing,
		Availability: domain.BundleAvailability{
			StartDate:      in.StartDate,
			EndDate:        in.EndDate,
			StockQuantity:  in.StockQuantity,
			MaxPerCustomer: in.MaxPerCustomer,
		},
		Tags:      in.Tags,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = b.CheckRules(); err != nil {
		return nil, err
	}
	if err = u.repo.CreateBundle(ctx, b); err != nil {
		return nil, err
	}
	u.logger.Info("bundle created",
		slog.String("bundle_id", b.ID),
		slog.String("alias", b.Alias),
		slog.String("final_price", b.Pricing.FinalPrice.String()))
	return b, nil
}

// GetBundle returns one bundle through the cache.
func (u *BundleUseCase) GetBundle(ctx context.Context, id string) (*domain.ProductBundle, error) {
	return querycache.Fetch(ctx, u.cache, keyBundles.With("detail", id), func(ctx context.Context) (*domain.ProductBundle, error) {
		return u.load(ctx, id)
	})
}

func (u *BundleUseCase) load(ctx context.Context, id string) (*domain.ProductBundle, error) {
	b, err := u.repo.GetBundle(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NotFound("bundle", id)
	}
	return b, nil
}

// FindBundleByAlias returns the bundle claiming alias.
func (u *BundleUseCase) FindBundleByAlias(ctx context.Context, alias string) (*domain.ProductBundle, error) {
	alias = strings.TrimSpace(alias)
	return querycache.Fetch(ctx, u.cache, keyBundles.With("alias", alias), func(ctx context.Context) (*domain.ProductBundle, error) {
		b, err := u.repo.GetBundleByAlias(ctx, alias)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, domain.NotFound("bundle", alias)
		}
		return b, nil
	})
}

// ListBundles lists bundles, optionally only active ones.
func (u *BundleUseCase) ListBundles(ctx context.Context, activeOnly bool) ([]domain.ProductBundle, error) {
	key := keyBundles.With("list", strconv.FormatBool(activeOnly))
	return querycache.Fetch(ctx, u.cache, key, func(ctx context.Context) ([]domain.ProductBundle, error) {
		return u.repo.ListBundles(ctx, activeOnly)
	})
}

// AdjustStock applies delta to the bundle stock. Over-draw changes nothing.
func (u *BundleUseCase) AdjustStock(ctx context.Context, id string, delta int) (*domain.ProductBundle, error) {
	if _, err := u.authorize(ctx, domain.PermBundleManage); err != nil {
		return nil, err
	}
	if _, err := u.repo.AdjustBundleStock(ctx, id, delta); err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyBundles, keyCampaigns.With("bundles"))
	return u.load(ctx, id)
}

// CloneBundle copies a bundle under a fresh id. The alias is not copied.
func (u *BundleUseCase) CloneBundle(ctx context.Context, id string) (*domain.ProductBundle, error) {
	if _, err := u.authorize(ctx, domain.PermBundleManage); err != nil {
		return nil, err
	}
	src, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := src.CloneAs(u.newID(), u.now())
	if err = u.repo.CreateBundle(ctx, &clone); err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyBundles.With("list"))
	return &clone, nil
}

// resolve maps a launch token to a bundle: first by id, then by alias, and
// finally by creating it from the template registered under the token.
func (u *BundleUseCase) resolve(ctx context.Context, token string, templates map[string]port.CreateBundleInput) (*domain.ProductBundle, error) {
	b, err := u.repo.GetBundle(ctx, token)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}
	if b, err = u.repo.GetBundleByAlias(ctx, token); err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}
	tmpl, ok := templates[token]
	if !ok {
		return nil, domain.NotFound("bundle", token)
	}
	tmpl.Alias = token
	b, err = u.create(ctx, tmpl)
	if err == nil {
		u.invalidate(ctx, keyBundles.With("list"))
		return b, nil
	}
	// a concurrent launch may have claimed the alias first
	var de *domain.Error
	if errors.As(err, &de) && de.Code == domain.CodeAliasAlreadyClaimed {
		if b, lerr := u.repo.GetBundleByAlias(ctx, token); lerr == nil && b != nil {
			return b, nil
		}
	}
	return nil, err
}
