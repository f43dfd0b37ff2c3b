package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CampaignType enumerates promotional campaign flavours.
type CampaignType string

const (
	CampaignSeasonal    CampaignType = "seasonal"
	CampaignPromotional CampaignType = "promotional"
	CampaignClearance   CampaignType = "clearance"
	CampaignNewProduct  CampaignType = "new_product"
	CampaignFlashSale   CampaignType = "flash_sale"
	CampaignHoliday     CampaignType = "holiday"
)

// CampaignStatus is the lifecycle status of a campaign.
type CampaignStatus string

const (
	CampaignPlanned   CampaignStatus = "planned"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// MinClearanceDiscount is the smallest discount a clearance campaign may run
// with, in percent.
const MinClearanceDiscount = 25.0

// MarketingCampaign is a timed, budgeted promotional grouping. It references
// content by id and does not own it.
type MarketingCampaign struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Type               CampaignType   `json:"campaignType"`
	StartDate          time.Time      `json:"startDate"`
	EndDate            time.Time      `json:"endDate"`
	DiscountPercentage float64        `json:"discountPercentage"`
	Status             CampaignStatus `json:"status"`
	TargetAudience     TargetAudience `json:"targetAudience"`
	ContentIDs         []string       `json:"contentIds"`
	Budget             *Budget        `json:"budget,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// Budget is the optional spend envelope of a campaign.
type Budget struct {
	Total    decimal.Decimal `json:"total"`
	Spent    decimal.Decimal `json:"spent"`
	Currency string          `json:"currency"`
}

// Remaining is the unspent part of the budget.
func (b Budget) Remaining() decimal.Decimal {
	return b.Total.Sub(b.Spent)
}

// campaignEdges is acyclic: a paused campaign can only be completed.
var campaignEdges = map[CampaignStatus][]CampaignStatus{
	CampaignPlanned:   {CampaignActive},
	CampaignActive:    {CampaignPaused, CampaignCompleted},
	CampaignPaused:    {CampaignCompleted},
	CampaignCompleted: nil,
}

// CanTransitionCampaign reports whether the status edge from -> to exists.
func CanTransitionCampaign(from, to CampaignStatus) bool {
	for _, s := range campaignEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckRules enforces the cross-field campaign invariants.
func (c *MarketingCampaign) CheckRules() error {
	if !c.EndDate.After(c.StartDate) {
		return Validation(CodeCampaignDateRange, "end date must be after start date",
			FieldError{Field: "endDate", Message: "must be after startDate"})
	}
	if c.DiscountPercentage < 0 || c.DiscountPercentage > 100 {
		return ValidationFailed("discount percentage must be between 0 and 100",
			FieldError{Field: "discountPercentage", Message: "must be between 0 and 100"})
	}
	if c.Type == CampaignClearance && c.DiscountPercentage < MinClearanceDiscount {
		return Validation(CodeClearanceDiscount, "clearance campaigns must have at least 25% discount",
			FieldError{Field: "discountPercentage", Message: "must be at least 25 for clearance campaigns"})
	}
	if a := c.TargetAudience; a.MinAge > 0 && a.MaxAge > 0 && a.MinAge > a.MaxAge {
		return ValidationFailed("target audience age range is inverted",
			FieldError{Field: "targetAudience.maxAge", Message: "must not be below minAge"})
	}
	if b := c.Budget; b != nil {
		if b.Total.IsNegative() || b.Spent.IsNegative() {
			return ValidationFailed("budget amounts must not be negative",
				FieldError{Field: "budget", Message: "must not be negative"})
		}
		if b.Spent.GreaterThan(b.Total) {
			return ValidationFailed("budget spent exceeds total",
				FieldError{Field: "budget.spent", Message: "must not exceed total"})
		}
	}
	return nil
}

// Activate moves a planned campaign to active.
func (c *MarketingCampaign) Activate(at time.Time) error {
	if !CanTransitionCampaign(c.Status, CampaignActive) {
		return StateError(CodeCannotActivate,
			fmt.Sprintf("Cannot activate campaign %s in status %s", c.ID, c.Status),
			string(c.Status), string(CampaignActive))
	}
	c.Status = CampaignActive
	c.UpdatedAt = at
	return nil
}

// MoveTo applies any other status change along the edge table.
func (c *MarketingCampaign) MoveTo(target CampaignStatus, at time.Time) error {
	if target == CampaignActive {
		return c.Activate(at)
	}
	if !CanTransitionCampaign(c.Status, target) {
		return InvalidTransition("campaign", string(c.Status), string(target))
	}
	c.Status = target
	c.UpdatedAt = at
	return nil
}

// AddContent appends ids not yet referenced, keeping order. It reports how
// many were added.
func (c *MarketingCampaign) AddContent(ids ...string) int {
	seen := make(map[string]struct{}, len(c.ContentIDs))
	for _, id := range c.ContentIDs {
		seen[id] = struct{}{}
	}
	added := 0
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		c.ContentIDs = append(c.ContentIDs, id)
		added++
	}
	return added
}

// IsRunning reports whether the campaign is active and inside its window.
func (c *MarketingCampaign) IsRunning(now time.Time) bool {
	return c.Status == CampaignActive && !now.Before(c.StartDate) && now.Before(c.EndDate)
}

// Clone returns a deep copy.
func (c MarketingCampaign) Clone() MarketingCampaign {
	out := c
	out.ContentIDs = append([]string(nil), c.ContentIDs...)
	out.TargetAudience.Segments = append([]string(nil), c.TargetAudience.Segments...)
	out.TargetAudience.Regions = append([]string(nil), c.TargetAudience.Regions...)
	if c.Budget != nil {
		b := *c.Budget
		out.Budget = &b
	}
	return out
}
