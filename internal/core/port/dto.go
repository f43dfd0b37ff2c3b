package port

import (
	"time"

	"github.com/shopspring/decimal"

	"mcommerce/internal/core/domain"
)

// CreateContentInput is the payload for a new draft. Author defaults to the
// acting user.
type CreateContentInput struct {
	Title    string                 `json:"title" validate:"required,max=200"`
	Type     domain.ContentType     `json:"type" validate:"required,content_type"`
	Body     string                 `json:"body"`
	Author   string                 `json:"author,omitempty" validate:"omitempty,max=100"`
	Tags     []string               `json:"tags,omitempty" validate:"omitempty,unique,dive,required,max=50"`
	Metadata domain.ContentMetadata `json:"metadata"`
}

// UpdateContentInput changes editable fields. Nil fields are left as is.
type UpdateContentInput struct {
	Title    *string                 `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Body     *string                 `json:"body,omitempty"`
	Tags     []string                `json:"tags,omitempty" validate:"omitempty,unique,dive,required,max=50"`
	Metadata *domain.ContentMetadata `json:"metadata,omitempty"`
}

// BudgetInput is the optional campaign budget.
type BudgetInput struct {
	Total    decimal.Decimal `json:"total" validate:"gte=0"`
	Spent    decimal.Decimal `json:"spent" validate:"gte=0"`
	Currency string          `json:"currency" validate:"required,iso4217"`
}

// Budget converts the input into the domain value.
func (b *BudgetInput) Budget() *domain.Budget {
	if b == nil {
		return nil
	}
	return &domain.Budget{Total: b.Total, Spent: b.Spent, Currency: b.Currency}
}

// CreateCampaignInput is the payload for a new planned campaign.
type CreateCampaignInput struct {
	Name               string                `json:"name" validate:"required,max=200"`
	Description        string                `json:"description,omitempty" validate:"max=2000"`
	Type               domain.CampaignType   `json:"campaignType" validate:"required,campaign_type"`
	StartDate          time.Time             `json:"startDate" validate:"required"`
	EndDate            time.Time             `json:"endDate" validate:"required"`
	DiscountPercentage float64               `json:"discountPercentage" validate:"gte=0,lte=100"`
	TargetAudience     domain.TargetAudience `json:"targetAudience"`
	ContentIDs         []string              `json:"contentIds,omitempty" validate:"omitempty,unique,dive,required"`
	Budget             *BudgetInput          `json:"budget,omitempty"`
}

// UpdateCampaignInput changes campaign fields. Nil fields are left as is.
type UpdateCampaignInput struct {
	Name               *string                `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description        *string                `json:"description,omitempty" validate:"omitempty,max=2000"`
	StartDate          *time.Time             `json:"startDate,omitempty"`
	EndDate            *time.Time             `json:"endDate,omitempty"`
	DiscountPercentage *float64               `json:"discountPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	TargetAudience     *domain.TargetAudience `json:"targetAudience,omitempty"`
	Budget             *BudgetInput           `json:"budget,omitempty"`
}

// BundleItemInput is one product line of a bundle request.
type BundleItemInput struct {
	ProductID  string `json:"productId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=1"`
	IsRequired bool   `json:"isRequired"`
}

// QuoteBundleInput prices a prospective bundle.
type QuoteBundleInput struct {
	Items         []BundleItemInput   `json:"items" validate:"required,dive"`
	DiscountType  domain.DiscountType `json:"discountType" validate:"required,discount_type"`
	DiscountValue decimal.Decimal     `json:"discountValue" validate:"gte=0"`
}

// CreateBundleInput is the payload for a new bundle. Prices are looked up
// from the catalog. IsActive defaults to true.
type CreateBundleInput struct {
	Alias          string              `json:"alias,omitempty" validate:"omitempty,max=64"`
	Name           string              `json:"name" validate:"required,max=200"`
	Description    string              `json:"description,omitempty"`
	Items          []BundleItemInput   `json:"items" validate:"required,dive"`
	DiscountType   domain.DiscountType `json:"discountType" validate:"required,discount_type"`
	DiscountValue  decimal.Decimal     `json:"discountValue" validate:"gte=0"`
	StartDate      *time.Time          `json:"startDate,omitempty"`
	EndDate        *time.Time          `json:"endDate,omitempty"`
	StockQuantity  int                 `json:"stockQuantity" validate:"gte=0"`
	MaxPerCustomer int                 `json:"maxPerCustomer,omitempty" validate:"gte=0"`
	Tags           []string            `json:"tags,omitempty"`
	IsActive       *bool               `json:"isActive,omitempty"`
}

// Quote returns the pricing part of the request.
func (in CreateBundleInput) Quote() QuoteBundleInput {
	return QuoteBundleInput{Items: in.Items, DiscountType: in.DiscountType, DiscountValue: in.DiscountValue}
}

// RecordMetricInput appends one metric row. A zero Date means today.
type RecordMetricInput struct {
	CampaignID string            `json:"campaignId" validate:"required"`
	Date       time.Time         `json:"date"`
	Type       domain.MetricType `json:"metricType" validate:"required,metric_type"`
	Value      float64           `json:"value" validate:"gte=0"`
}

// LaunchRequest asks the orchestrator to launch a campaign. BundleIDs holds
// bundle ids or aliases; an alias missing from the store is created from the
// matching NewBundles template.
type LaunchRequest struct {
	CampaignID string                       `json:"campaignId" validate:"required"`
	ContentIDs []string                     `json:"contentIds" validate:"omitempty,dive,required"`
	BundleIDs  []string                     `json:"bundleIds,omitempty" validate:"omitempty,dive,required"`
	NewBundles map[string]CreateBundleInput `json:"newBundles,omitempty"`
}

// CampaignLaunchResult is the aggregated outcome of a launch. On failure
// Errors lists human-readable messages and FailureKind classifies the first.
type CampaignLaunchResult struct {
	Success          bool                      `json:"success"`
	Campaign         *domain.MarketingCampaign `json:"campaign,omitempty"`
	PublishedContent []domain.ContentWorkflow  `json:"publishedContent,omitempty"`
	BundlesApplied   int                       `json:"bundlesApplied"`
	Errors           []string                  `json:"errors,omitempty"`
	FailureKind      domain.Kind               `json:"failureKind,omitempty"`
}
