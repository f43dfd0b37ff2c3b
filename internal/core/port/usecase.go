package port

import (
	"context"
	"time"

	"mcommerce/internal/core/domain"
)

// The use-case interfaces are the primary ports into the application. Every
// mutating operation reads the acting user from the context and checks the
// matching permission first. Errors are *domain.Error values.

// ContentUseCase manages marketing content and its approval workflow.
type ContentUseCase interface {
	CreateContent(ctx context.Context, in CreateContentInput) (*domain.ContentWorkflow, error)
	GetContent(ctx context.Context, id string) (*domain.ContentWorkflow, error)
	UpdateContent(ctx context.Context, id string, in UpdateContentInput) (*domain.ContentWorkflow, error)
	ListContent(ctx context.Context, f ContentFilter) ([]domain.ContentWorkflow, error)
	// TransitionContent moves content along one edge of the workflow table.
	TransitionContent(ctx context.Context, id string, target domain.WorkflowState) (*domain.ContentWorkflow, error)
	// RequestApproval records a reviewer decision on content in review.
	RequestApproval(ctx context.Context, id string, d domain.ApprovalDecision) (*domain.ContentWorkflow, error)
	// PublishContent publishes approved content. Published content is
	// returned unchanged.
	PublishContent(ctx context.Context, id string) (*domain.ContentWorkflow, error)
	// EmergencyUnpublish archives published content and records why.
	EmergencyUnpublish(ctx context.Context, id, reason string) (*domain.ContentWorkflow, error)
}

// CampaignUseCase manages campaigns.
type CampaignUseCase interface {
	CreateCampaign(ctx context.Context, in CreateCampaignInput) (*domain.MarketingCampaign, error)
	GetCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error)
	ListCampaigns(ctx context.Context, f CampaignFilter) ([]domain.MarketingCampaign, error)
	UpdateCampaign(ctx context.Context, id string, in UpdateCampaignInput) (*domain.MarketingCampaign, error)
	// ActivateCampaign requires every referenced content item to be approved
	// or published.
	ActivateCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error)
	PauseCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error)
	CompleteCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error)
	AddContent(ctx context.Context, id string, contentIDs []string) (*domain.MarketingCampaign, error)
	AttachBundle(ctx context.Context, campaignID, bundleID string) error
	CampaignBundles(ctx context.Context, campaignID string) ([]domain.ProductBundle, error)
	// CampaignsForShopper lists running campaigns whose audience matches.
	CampaignsForShopper(ctx context.Context, shopper domain.ShopperContext) ([]domain.MarketingCampaign, error)
}

// BundleUseCase manages product bundles.
type BundleUseCase interface {
	// QuoteBundle prices a bundle without persisting it.
	QuoteBundle(ctx context.Context, in QuoteBundleInput) (*domain.BundlePricing, error)
	CreateBundle(ctx context.Context, in CreateBundleInput) (*domain.ProductBundle, error)
	GetBundle(ctx context.Context, id string) (*domain.ProductBundle, error)
	FindBundleByAlias(ctx context.Context, alias string) (*domain.ProductBundle, error)
	ListBundles(ctx context.Context, activeOnly bool) ([]domain.ProductBundle, error)
	AdjustStock(ctx context.Context, id string, delta int) (*domain.ProductBundle, error)
	CloneBundle(ctx context.Context, id string) (*domain.ProductBundle, error)
}

// AnalyticsUseCase records and aggregates campaign metrics.
type AnalyticsUseCase interface {
	RecordMetric(ctx context.Context, in RecordMetricInput) (*domain.CampaignMetric, error)
	CampaignSummary(ctx context.Context, campaignID string, from, to time.Time) (*domain.MetricSummary, error)
	// StartTracking opens the metric series of a freshly launched campaign.
	StartTracking(ctx context.Context, campaignID string) error
}

// CatalogUseCase serves normalized products and categories through the query
// cache.
type CatalogUseCase interface {
	Products(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// LaunchUseCase sequences content publishing, campaign activation, bundle
// association and analytics into a single launch.
type LaunchUseCase interface {
	LaunchCampaignWithContent(ctx context.Context, req LaunchRequest) CampaignLaunchResult
	// LaunchCampaign takes the content ids from the campaign itself.
	LaunchCampaign(ctx context.Context, campaignID string) CampaignLaunchResult
}
