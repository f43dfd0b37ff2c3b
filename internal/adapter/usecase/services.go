package usecase

import "mcommerce/internal/core/port"

// Repositories is the storage surface the services need from one backend.
type Repositories interface {
	port.ContentRepository
	port.CampaignRepository
	port.BundleRepository
	port.MetricRepository
	port.CatalogRepository
	port.PermissionChecker
	port.UnitOfWork
}

// Services holds one instance of every service, wired to each other.
type Services struct {
	Contents  *ContentUseCase
	Campaigns *CampaignUseCase
	Bundles   *BundleUseCase
	Analytics *AnalyticsUseCase
	Catalog   *CatalogUseCase
	Launch    *LaunchUseCase
}

// NewServices builds every service on top of r with shared options.
func NewServices(r Repositories, opts ...Option) *Services {
	s := &Services{
		Catalog:   NewCatalogUseCase(r, opts...),
		Contents:  NewContentUseCase(r, r, opts...),
		Campaigns: NewCampaignUseCase(r, r, r, opts...),
		Analytics: NewAnalyticsUseCase(r, r, r, opts...),
	}
	s.Bundles = NewBundleUseCase(r, s.Catalog, r, opts...)
	s.Launch = NewLaunchUseCase(r, s.Contents, s.Campaigns, s.Bundles, s.Analytics, r, opts...)
	return s
}
