package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
)

// Demo users installed by Seed.
const (
	DemoManager = "demo-manager"
	DemoEditor  = "demo-editor"
)

// SeedTarget is what Seed writes to. Both the postgres repository and the
// memory store satisfy it.
type SeedTarget interface {
	port.ContentRepository
	port.CampaignRepository
	UpsertCategory(ctx context.Context, c domain.RawCategory) error
	UpsertProduct(ctx context.Context, p domain.RawProduct) error
	AssignRole(ctx context.Context, userID string, role domain.Role) error
}

type seedProduct struct {
	id, name, category, price string
	stock                     int
}

var seedCategories = []struct {
	id, name string
	order    int
}{
	{"audio", "Audio", 1},
	{"wearables", "Wearables", 2},
	{"accessories", "Accessories", 3},
}

var seedProducts = []seedProduct{
	{"prod-headphones", "Wireless headphones", "audio", "99.99", 120},
	{"prod-case", "Charging case", "accessories", "49.99", 300},
	{"prod-eartips", "Memory foam ear tips", "accessories", "9.99", 800},
	{"prod-watch", "Fitness watch", "wearables", "149.00", 60},
	{"prod-band", "Sport band", "wearables", "19.50", 400},
}

const (
	seedContentID  = "seed-content-summer-email"
	seedCampaignID = "seed-campaign-summer"
)

// Seed inserts demo catalog rows, roles, one approved content item and one
// planned campaign referencing it. Running it twice changes nothing.
func Seed(ctx context.Context, t SeedTarget, now time.Time) error {
	for _, c := range seedCategories {
		name, order, active := c.name, c.order, true
		if err := t.UpsertCategory(ctx, domain.RawCategory{ID: c.id, Name: &name, SortOrder: &order, IsActive: &active}); err != nil {
			return fmt.Errorf("seed category %s: %w", c.id, err)
		}
	}
	for _, p := range seedProducts {
		name, category, stock := p.name, p.category, p.stock
		created := now
		row := domain.RawProduct{
			ID:         p.id,
			Name:       &name,
			Price:      decimal.NewNullDecimal(decimal.RequireFromString(p.price)),
			CategoryID: &category,
			Stock:      &stock,
			Tags:       []string{category},
			CreatedAt:  &created,
		}
		if err := t.UpsertProduct(ctx, row); err != nil {
			return fmt.Errorf("seed product %s: %w", p.id, err)
		}
	}

	if err := t.AssignRole(ctx, DemoManager, domain.RoleMarketingManager); err != nil {
		return fmt.Errorf("seed role: %w", err)
	}
	if err := t.AssignRole(ctx, DemoEditor, domain.RoleContentEditor); err != nil {
		return fmt.Errorf("seed role: %w", err)
	}

	existing, err := t.GetContent(ctx, seedContentID)
	if err != nil {
		return err
	}
	if existing == nil {
		c := &domain.ContentWorkflow{
			ID:        seedContentID,
			Title:     "Summer sale is here",
			Type:      domain.ContentEmail,
			Body:      "Save up to 20% on audio bundles this week.",
			State:     domain.StateDraft,
			Version:   1,
			Author:    DemoEditor,
			Tags:      []string{"summer"},
			CreatedAt: now,
			UpdatedAt: now,
		}
		m := domain.NewWorkflowMachine(c)
		for _, s := range []domain.WorkflowState{domain.StateReview, domain.StateApproved} {
			if err = m.Transition(s, now); err != nil {
				return err
			}
		}
		if err = t.CreateContent(ctx, c); err != nil {
			return fmt.Errorf("seed content: %w", err)
		}
	}

	camp, err := t.GetCampaign(ctx, seedCampaignID)
	if err != nil {
		return err
	}
	if camp == nil {
		camp = &domain.MarketingCampaign{
			ID:                 seedCampaignID,
			Name:               "Summer audio",
			Type:               domain.CampaignSeasonal,
			StartDate:          now,
			EndDate:            now.AddDate(0, 1, 0),
			DiscountPercentage: 20,
			Status:             domain.CampaignPlanned,
			TargetAudience:     domain.TargetAudience{Segments: []string{"audio-fans"}},
			ContentIDs:         []string{seedContentID},
			Budget:             &domain.Budget{Total: decimal.NewFromInt(5000), Currency: "USD"},
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err = camp.CheckRules(); err != nil {
			return err
		}
		if err = t.CreateCampaign(ctx, camp); err != nil {
			return fmt.Errorf("seed campaign: %w", err)
		}
	}
	return nil
}
