package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mcommerce/internal/adapter/querycache"
	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/core/validate"
)

// CampaignUseCase implements port.CampaignUseCase.
type CampaignUseCase struct {
	repo     port.CampaignRepository
	contents port.ContentRepository
	deps
}

// NewCampaignUseCase creates the campaign service. The content repository is
// used to check references and launch readiness.
func NewCampaignUseCase(repo port.CampaignRepository, contents port.ContentRepository, perms port.PermissionChecker, opts ...Option) *CampaignUseCase {
	return &CampaignUseCase{repo: repo, contents: contents, deps: newDeps(perms, opts)}
}

// CreateCampaign stores a new planned campaign.
func (u *CampaignUseCase) CreateCampaign(ctx context.Context, in port.CreateCampaignInput) (*domain.MarketingCampaign, error) {
	if _, err := u.authorize(ctx, domain.PermCampaignCreate); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	now := u.now()
	c := &domain.MarketingCampaign{
		ID:                 u.newID(),
		Name:               strings.TrimSpace(in.Name),
		Description:        in.Description,
		Type:               in.Type,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		DiscountPercentage: in.DiscountPercentage,
		Status:             domain.CampaignPlanned,
		TargetAudience:     in.TargetAudience,
		Budget:             in.Budget.Budget(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	c.AddContent(in.ContentIDs...)
	if err := c.CheckRules(); err != nil {
		return nil, err
	}
	if err := u.requireContent(ctx, c.ContentIDs); err != nil {
		return nil, err
	}
	if err := u.repo.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyCampaigns.With("list"))
	u.logger.Info("campaign created",
		slog.String("campaign_id", c.ID),
		slog.String("type", string(c.Type)))
	return c, nil
}

// requireContent fails with not-found on the first id that does not resolve.
func (u *CampaignUseCase) requireContent(ctx context.Context, ids []string) error {
	for _, id := range ids {
		c, err := u.contents.GetContent(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("content", id)
		}
	}
	return nil
}

// GetCampaign returns one campaign through the cache.
func (u *CampaignUseCase) GetCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error) {
	return querycache.Fetch(ctx, u.cache, keyCampaigns.With("detail", id), func(ctx context.Context) (*domain.MarketingCampaign, error) {
		return u.load(ctx, id)
	})
}

func (u *CampaignUseCase) load(ctx context.Context, id string) (*domain.MarketingCampaign, error) {
	c, err := u.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("campaign", id)
	}
	return c, nil
}

// ListCampaigns returns campaigns matching f through the cache.
func (u *CampaignUseCase) ListCampaigns(ctx context.Context, f port.CampaignFilter) ([]domain.MarketingCampaign, error) {
	key := keyCampaigns.With("list", string(f.Status), string(f.Type))
	return querycache.Fetch(ctx, u.cache, key, func(ctx context.Context) ([]domain.MarketingCampaign, error) {
		return u.repo.ListCampaigns(ctx, f)
	})
}

// UpdateCampaign edits a campaign that has not completed.
func (u *CampaignUseCase) UpdateCampaign(ctx context.Context, id string, in port.UpdateCampaignInput) (*domain.MarketingCampaign, error) {
	if _, err := u.authorize(ctx, domain.PermCampaignEdit); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = editable(c); err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.StartDate != nil {
		c.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		c.EndDate = *in.EndDate
	}
	if in.DiscountPercentage != nil {
		c.DiscountPercentage = *in.DiscountPercentage
	}
	if in.TargetAudience != nil {
		c.TargetAudience = *in.TargetAudience
	}
	if in.Budget != nil {
		c.Budget = in.Budget.Budget()
	}
	if err = c.CheckRules(); err != nil {
		return nil, err
	}
	c.UpdatedAt = u.now()
	if err = u.repo.UpdateCampaign(ctx, c); err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyCampaigns)
	return c, nil
}

func editable(c *domain.MarketingCampaign) error {
	if c.Status == domain.CampaignCompleted {
		return domain.StateError(domain.CodeCampaignCompleted,
			fmt.Sprintf("campaign %s is completed", c.ID), string(c.Status), string(c.Status))
	}
	return nil
}

// ActivateCampaign moves a planned campaign to active once all of its
// content is approved or published.
func (u *CampaignUseCase) ActivateCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error) {
	if _, err := u.authorize(ctx, domain.PermCampaignActivate); err != nil {
		return nil, err
	}
	c, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = u.activate(ctx, c); err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyCampaigns)
	return c, nil
}

// activate checks the status edge first, then content readiness, then saves.
// It touches no cache so it can run inside a launch transaction.
func (u *CampaignUseCase) activate(ctx context.Context, c *domain.MarketingCampaign) error {
	if err := c.Activate(u.now()); err != nil {
		return err
	}
	for _, id := range c.ContentIDs {
		item, err := u.contents.GetContent(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("Content", id)
		}
		if !item.IsLaunchable() {
			return notApproved(item)
		}
	}
	return u.repo.UpdateCampaign(ctx, c)
}

func notApproved(c *domain.ContentWorkflow) error {
	return domain.StateError(domain.CodeContentNotApproved,
		fmt.Sprintf("Content %s is not approved (current state: %s)", c.ID, c.State),
		string(c.State), string(domain.StatePublished))
}

// PauseCampaign moves an active campaign to paused.
func (u *CampaignUseCase) PauseCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error) {
	return u.moveTo(ctx, id, domain.CampaignPaused)
}

// CompleteCampaign closes an active or paused campaign.
func (u *CampaignUseCase) CompleteCampaign(ctx context.Context, id string) (*domain.MarketingCampaign, error) {
	return u.moveTo(ctx, id, domain.CampaignCompleted)
}

func (u *CampaignUseCase) moveTo(ctx context.Context, id string, target domain.CampaignStatus) (*domain.MarketingCampaign, error) {
	if _, err := u.authorize(ctx, domain.PermCampaignActivate); err != nil {
		return nil, err
	}
	c, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from := c.Status
	if err = c.MoveTo(target, u.now()); err != nil {
		return nil, err
	}
	if err = u.repo.UpdateCampaign(ctx, c); err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyCampaigns)
	u.logger.Info("campaign status changed",
		slog.String("campaign_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(target)))
	return c, nil
}

// AddContent references more content from a campaign. The cached detail
// entry is updated optimistically and restored if the write fails.
func (u *CampaignUseCase) AddContent(ctx context.Context, id string, contentIDs []string) (*domain.MarketingCampaign, error) {
	if _, err := u.authorize(ctx, domain.PermCampaignEdit); err != nil {
		return nil, err
	}
	c, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = editable(c); err != nil {
		return nil, err
	}
	if c.AddContent(contentIDs...) == 0 {
		return c, nil
	}
	if err = u.requireContent(ctx, c.ContentIDs); err != nil {
		return nil, err
	}
	c.UpdatedAt = u.now()

	updated, err := querycache.Mutate(ctx, u.cache, keyCampaigns.With("detail", id), c,
		func(ctx context.Context) (*domain.MarketingCampaign, error) {
			if err := u.repo.UpdateCampaign(ctx, c); err != nil {
				return nil, err
			}
			return c, nil
		})
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx, keyCampaigns.With("list"))
	return updated, nil
}

// AttachBundle associates a bundle with a campaign.
func (u *CampaignUseCase) AttachBundle(ctx context.Context, campaignID, bundleID string) error {
	if _, err := u.authorize(ctx, domain.PermCampaignEdit); err != nil {
		return err
	}
	if err := u.attachBundle(ctx, campaignID, bundleID); err != nil {
		return err
	}
	return nil
}

func (u *CampaignUseCase) attachBundle(ctx context.Context, campaignID, bundleID string) error {
	if err := u.repo.AttachBundle(ctx, campaignID, bundleID); err != nil {
		return err
	}
	u.invalidate(ctx, keyCampaigns.With("bundles", campaignID))
	return nil
}

// CampaignBundles lists the bundles attached to a campaign.
func (u *CampaignUseCase) CampaignBundles(ctx context.Context, campaignID string) ([]domain.ProductBundle, error) {
	return querycache.Fetch(ctx, u.cache, keyCampaigns.With("bundles", campaignID), func(ctx context.Context) ([]domain.ProductBundle, error) {
		if _, err := u.load(ctx, campaignID); err != nil {
			return nil, err
		}
		return u.repo.ListCampaignBundles(ctx, campaignID)
	})
}

// CampaignsForShopper returns the running campaigns whose audience matches
// the shopper.
func (u *CampaignUseCase) CampaignsForShopper(ctx context.Context, shopper domain.ShopperContext) ([]domain.MarketingCampaign, error) {
	active, err := u.ListCampaigns(ctx, port.CampaignFilter{Status: domain.CampaignActive})
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]domain.MarketingCampaign, 0, len(active))
	for _, c := range active {
		if c.IsRunning(now) && c.TargetAudience.Matches(shopper) {
			out = append(out, c)
		}
	}
	return out, nil
}
