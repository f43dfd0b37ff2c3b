package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"mcommerce/internal/core/domain"
)

// Repositories return (nil, nil) from single-row lookups when the id does not
// resolve. Update methods report a missing row as a domain not-found error.
// Driver failures come back as domain store errors.

// ContentRepository persists content items together with their transition
// history.
type ContentRepository interface {
	// CreateContent inserts a new content item.
	CreateContent(ctx context.Context, c *domain.ContentWorkflow) error
	// GetContent returns a content item by id.
	GetContent(ctx context.Context, id string) (*domain.ContentWorkflow, error)
	// UpdateContent overwrites the item and appends history records not yet
	// stored.
	UpdateContent(ctx context.Context, c *domain.ContentWorkflow) error
	// ListContent returns items matching the filter, newest first.
	ListContent(ctx context.Context, f ContentFilter) ([]domain.ContentWorkflow, error)
}

// CampaignRepository persists campaigns and their bundle associations.
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, c *domain.MarketingCampaign) error
	GetCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error)
	UpdateCampaign(ctx context.Context, c *domain.MarketingCampaign) error
	ListCampaigns(ctx context.Context, f CampaignFilter) ([]domain.MarketingCampaign, error)
	// AttachBundle is idempotent per (campaign, bundle) pair.
	AttachBundle(ctx context.Context, campaignID, bundleID string) error
	ListCampaignBundles(ctx context.Context, campaignID string) ([]domain.ProductBundle, error)
}

// BundleRepository persists product bundles.
type BundleRepository interface {
	CreateBundle(ctx context.Context, b *domain.ProductBundle) error
	GetBundle(ctx context.Context, id string) (*domain.ProductBundle, error)
	GetBundleByAlias(ctx context.Context, alias string) (*domain.ProductBundle, error)
	ListBundles(ctx context.Context, activeOnly bool) ([]domain.ProductBundle, error)
	// AdjustBundleStock atomically applies delta and returns the new stock.
	// Over-draw fails with domain.ErrInsufficientStock and changes nothing.
	AdjustBundleStock(ctx context.Context, id string, delta int) (int, error)
}

// MetricRepository stores the append-only campaign metric series.
type MetricRepository interface {
	InsertMetrics(ctx context.Context, rows []domain.CampaignMetric) error
	// ListMetrics returns rows with from <= date < to. Zero bounds are open.
	ListMetrics(ctx context.Context, campaignID string, from, to time.Time) ([]domain.CampaignMetric, error)
}

// CatalogRepository reads products and categories as raw rows.
type CatalogRepository interface {
	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.RawProduct, error)
	GetProduct(ctx context.Context, id string) (*domain.RawProduct, error)
	// GetProductPrices omits ids that do not resolve or have no price.
	GetProductPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
	ListCategories(ctx context.Context) ([]domain.RawCategory, error)
}

// PermissionChecker answers role-based permission questions.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID string, perm domain.Permission) (bool, error)
}

// UnitOfWork runs fn atomically. Repositories called with the context passed
// to fn take part in the same transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ContentFilter narrows ListContent. Zero values do not filter.
type ContentFilter struct {
	State  domain.WorkflowState
	Type   domain.ContentType
	Author string
}

// CampaignFilter narrows ListCampaigns. Zero values do not filter.
type CampaignFilter struct {
	Status domain.CampaignStatus
	Type   domain.CampaignType
}
