package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mcommerce/internal/adapter/querycache"
	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/metrics"
	"mcommerce/internal/requestctx"
)

// deps is the plumbing shared by every service: the permission checker, the
// query cache, logging, metrics, the clock and the id source.
type deps struct {
	perms   port.PermissionChecker
	cache   *querycache.Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// Option customizes a service.
type Option func(*deps)

// WithCache puts the query cache in front of the repositories.
func WithCache(c *querycache.Cache) Option {
	return func(d *deps) { d.cache = c }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *deps) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics records domain counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *deps) { d.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(gen func() string) Option {
	return func(d *deps) {
		if gen != nil {
			d.newID = gen
		}
	}
}

func newDeps(perms port.PermissionChecker, opts []Option) deps {
	d := deps{
		perms:  perms,
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// authorize resolves the acting user and checks perm.
func (d deps) authorize(ctx context.Context, perm domain.Permission) (string, error) {
	user := requestctx.UserID(ctx)
	if user == "" {
		return "", domain.Unauthenticated()
	}
	ok, err := d.perms.HasPermission(ctx, user, perm)
	if err != nil {
		return "", err
	}
	if !ok {
		d.logger.Info("permission denied",
			slog.String("user_id", user),
			slog.String("permission", string(perm)),
			slog.String("request_id", requestctx.RequestID(ctx)))
		return "", domain.PermissionDenied()
	}
	return user, nil
}

// invalidate drops cached entries under each prefix. Failures are logged.
func (d deps) invalidate(ctx context.Context, prefixes ...querycache.Key) {
	for _, p := range prefixes {
		if err := d.cache.Invalidate(ctx, p); err != nil {
			d.logger.Warn("cache invalidation failed", slog.String("prefix", p.String()), slog.Any("error", err))
		}
	}
}

// Cache key roots, one per entity.
var (
	keyContents   = querycache.NewKey("contents")
	keyCampaigns  = querycache.NewKey("campaigns")
	keyBundles    = querycache.NewKey("bundles")
	keyMetrics    = querycache.NewKey("metrics")
	keyProducts   = querycache.NewKey("products")
	keyCategories = querycache.NewKey("categories")
)

var (
	_ port.ContentUseCase   = (*ContentUseCase)(nil)
	_ port.CampaignUseCase  = (*CampaignUseCase)(nil)
	_ port.BundleUseCase    = (*BundleUseCase)(nil)
	_ port.AnalyticsUseCase = (*AnalyticsUseCase)(nil)
	_ port.CatalogUseCase   = (*CatalogUseCase)(nil)
	_ port.LaunchUseCase    = (*LaunchUseCase)(nil)
)
