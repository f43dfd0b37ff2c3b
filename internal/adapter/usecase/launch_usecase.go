package usecase

import (
	"context"
	"log/slog"
	"strings"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/core/validate"
	"mcommerce/internal/requestctx"
)

// LaunchUseCase implements port.LaunchUseCase. Publishing content and
// activating the campaign commit together; bundle association and analytics
// run afterwards and never fail the launch.
type LaunchUseCase struct {
	uow       port.UnitOfWork
	contents  *ContentUseCase
	campaigns *CampaignUseCase
	bundles   *BundleUseCase
	analytics *AnalyticsUseCase
	deps
}

// NewLaunchUseCase wires the orchestrator to the services it sequences.
func NewLaunchUseCase(
	uow port.UnitOfWork,
	contents *ContentUseCase,
	campaigns *CampaignUseCase,
	bundles *BundleUseCase,
	analytics *AnalyticsUseCase,
	perms port.PermissionChecker,
	opts ...Option,
) *LaunchUseCase {
	return &LaunchUseCase{
		uow:       uow,
		contents:  contents,
		campaigns: campaigns,
		bundles:   bundles,
		analytics: analytics,
		deps:      newDeps(perms, opts),
	}
}

// LaunchCampaign launches a campaign with the content it already references.
func (u *LaunchUseCase) LaunchCampaign(ctx context.Context, campaignID string) port.CampaignLaunchResult {
	if _, err := u.authorize(ctx, domain.PermCampaignLaunch); err != nil {
		return u.fail(ctx, campaignID, err)
	}
	c, err := u.campaigns.load(ctx, campaignID)
	if err != nil {
		return u.fail(ctx, campaignID, err)
	}
	return u.launch(ctx, port.LaunchRequest{CampaignID: c.ID, ContentIDs: c.ContentIDs})
}

// LaunchCampaignWithContent validates every content item, then publishes the
// approved ones and activates the campaign in one transaction, then attaches
// bundles and starts analytics.
func (u *LaunchUseCase) LaunchCampaignWithContent(ctx context.Context, req port.LaunchRequest) port.CampaignLaunchResult {
	if _, err := u.authorize(ctx, domain.PermCampaignLaunch); err != nil {
		return u.fail(ctx, req.CampaignID, err)
	}
	if err := validate.Struct(req); err != nil {
		return u.fail(ctx, req.CampaignID, err)
	}
	if _, err := u.campaigns.load(ctx, req.CampaignID); err != nil {
		return u.fail(ctx, req.CampaignID, err)
	}
	return u.launch(ctx, req)
}

// launch runs an authorized launch for a campaign known to exist.
func (u *LaunchUseCase) launch(ctx context.Context, req port.LaunchRequest) port.CampaignLaunchResult {
	ids := uniqueIDs(req.ContentIDs)
	if err := u.checkContent(ctx, ids); err != nil {
		return u.fail(ctx, req.CampaignID, err)
	}

	var (
		published   []domain.ContentWorkflow
		transitions int
		campaign    *domain.MarketingCampaign
	)
	err := u.uow.WithinTx(ctx, func(ctx context.Context) error {
		published, transitions = published[:0], 0
		for _, id := range ids {
			c, changed, err := u.contents.publish(ctx, id)
			if err != nil {
				return err
			}
			if changed {
				transitions++
			}
			published = append(published, *c)
		}
		c, err := u.campaigns.load(ctx, req.CampaignID)
		if err != nil {
			return err
		}
		c.AddContent(ids...)
		if err = u.campaigns.activate(ctx, c); err != nil {
			return err
		}
		campaign = c
		return nil
	})
	if err != nil {
		return u.fail(ctx, req.CampaignID, err)
	}
	for range transitions {
		u.metrics.ContentTransition(string(domain.StateApproved), string(domain.StatePublished))
	}
	u.invalidate(ctx, keyContents, keyCampaigns)

	applied := u.applyBundles(ctx, req)

	if err = u.analytics.startTracking(ctx, req.CampaignID); err != nil {
		u.logger.Warn("analytics tracking failed",
			slog.String("campaign_id", req.CampaignID), slog.Any("error", err))
	}

	u.metrics.Launch(true, applied)
	u.logger.Info("campaign launched",
		slog.String("campaign_id", req.CampaignID),
		slog.Int("published", len(published)),
		slog.Int("bundles", applied),
		slog.String("request_id", requestctx.RequestID(ctx)))
	return port.CampaignLaunchResult{
		Success:          true,
		Campaign:         campaign,
		PublishedContent: published,
		BundlesApplied:   applied,
	}
}

// checkContent fails on the first item that is missing or not yet approved.
// Nothing is written before every item passes.
func (u *LaunchUseCase) checkContent(ctx context.Context, ids []string) error {
	for _, id := range ids {
		c, err := u.contents.repo.GetContent(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("Content", id)
		}
		if !c.IsLaunchable() {
			return notApproved(c)
		}
	}
	return nil
}

// applyBundles attaches each requested bundle and returns how many were
// applied. Failures are logged and skipped.
func (u *LaunchUseCase) applyBundles(ctx context.Context, req port.LaunchRequest) int {
	applied := 0
	for _, token := range uniqueIDs(req.BundleIDs) {
		b, err := u.bundles.resolve(ctx, token, req.NewBundles)
		if err != nil {
			u.logger.Warn("bundle skipped",
				slog.String("campaign_id", req.CampaignID),
				slog.String("bundle", token),
				slog.Any("error", err))
			continue
		}
		if err = u.campaigns.attachBundle(ctx, req.CampaignID, b.ID); err != nil {
			u.logger.Warn("bundle attach failed",
				slog.String("campaign_id", req.CampaignID),
				slog.String("bundle_id", b.ID),
				slog.Any("error", err))
			continue
		}
		applied++
	}
	return applied
}

func (u *LaunchUseCase) fail(ctx context.Context, campaignID string, err error) port.CampaignLaunchResult {
	u.metrics.Launch(false, 0)
	u.logger.Warn("campaign launch failed",
		slog.String("campaign_id", campaignID),
		slog.String("request_id", requestctx.RequestID(ctx)),
		slog.Any("error", err))
	return port.CampaignLaunchResult{
		Errors:      []string{err.Error()},
		FailureKind: domain.KindOf(err),
	}
}

// uniqueIDs trims ids and drops blanks and repeats, keeping order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
