package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mcommerce/internal/adapter/querycache"
	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/core/port/mocks"
	"mcommerce/internal/requestctx"
)

func newMockedCampaigns(t *testing.T, opts ...Option) (*CampaignUseCase, *mocks.MockCampaignRepository, *mocks.MockContentRepository, *mocks.MockPermissionChecker) {
	t.Helper()
	repo := mocks.NewMockCampaignRepository(t)
	contents := mocks.NewMockContentRepository(t)
	perms := mocks.NewMockPermissionChecker(t)
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return NewCampaignUseCase(repo, contents, perms, opts...), repo, contents, perms
}

func managerCtx() context.Context {
	return requestctx.WithUserID(context.Background(), manager)
}

func TestCreateClearanceCampaignNeedsDeepDiscount(t *testing.T) {
	svc, _, _, perms := newMockedCampaigns(t)
	perms.EXPECT().HasPermission(mock.Anything, manager, domain.PermCampaignCreate).Return(true, nil)

	_, err := svc.CreateCampaign(managerCtx(), port.CreateCampaignInput{
		Name:               "Winter clearance",
		Type:               domain.CampaignClearance,
		StartDate:          fixedNow,
		EndDate:            fixedNow.AddDate(0, 0, 14),
		DiscountPercentage: 10,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 25% discount")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, domain.CodeClearanceDiscount, domain.CodeOf(err))
}

func TestCreateCampaignRejectsInvertedDates(t *testing.T) {
	svc, _, _, perms := newMockedCampaigns(t)
	perms.EXPECT().HasPermission(mock.Anything, manager, domain.PermCampaignCreate).Return(true, nil)

	_, err := svc.CreateCampaign(managerCtx(), port.CreateCampaignInput{
		Name:      "Backwards",
		Type:      domain.CampaignSeasonal,
		StartDate: fixedNow,
		EndDate:   fixedNow.AddDate(0, 0, -1),
	})

	assert.Equal(t, domain.CodeCampaignDateRange, domain.CodeOf(err))
}

func TestCreateCampaignStoresPlannedCampaign(t *testing.T) {
	svc, repo, contents, perms := newMockedCampaigns(t, WithIDGenerator(func() string { return "camp-1" }))
	perms.EXPECT().HasPermission(mock.Anything, manager, domain.PermCampaignCreate).Return(true, nil)
	contents.EXPECT().GetContent(mock.Anything, "c1").Return(&domain.ContentWorkflow{ID: "c1"}, nil)
	repo.EXPECT().
		CreateCampaign(mock.Anything, mock.AnythingOfType("*domain.MarketingCampaign")).
		Run(func(_ context.Context, c *domain.MarketingCampaign) {
			assert.Equal(t, domain.CampaignPlanned, c.Status)
			assert.Equal(t, []string{"c1"}, c.ContentIDs)
		}).
		Return(nil)

	c, err := svc.CreateCampaign(managerCtx(), port.CreateCampaignInput{
		Name:               "  Back to school ",
		Type:               domain.CampaignSeasonal,
		StartDate:          fixedNow,
		EndDate:            fixedNow.AddDate(0, 1, 0),
		DiscountPercentage: 15,
		ContentIDs:         []string{"c1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "camp-1", c.ID)
	assert.Equal(t, "Back to school", c.Name)
}

func TestPermissionDeniedSkipsRepository(t *testing.T) {
	svc, _, _, perms := newMockedCampaigns(t)
	perms.EXPECT().HasPermission(mock.Anything, "intern", domain.PermCampaignActivate).Return(false, nil)

	_, err := svc.ActivateCampaign(requestctx.WithUserID(context.Background(), "intern"), "camp-1")

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestActivateCampaignRequiresApprovedContent(t *testing.T) {
	svc, repo, contents, perms := newMockedCampaigns(t)
	perms.EXPECT().HasPermission(mock.Anything, manager, domain.PermCampaignActivate).Return(true, nil)
	repo.EXPECT().GetCampaign(mock.Anything, "camp-1").Return(&domain.MarketingCampaign{
		ID:         "camp-1",
		Status:     domain.CampaignPlanned,
		ContentIDs: []string{"c1"},
	}, nil)
	contents.EXPECT().GetContent(mock.Anything, "c1").Return(&domain.ContentWorkflow{ID: "c1", State: domain.StateDraft}, nil)

	_, err := svc.ActivateCampaign(managerCtx(), "camp-1")

	require.Error(t, err)
	assert.Equal(t, "Content c1 is not approved (current state: draft)", err.Error())
	assert.Equal(t, domain.CodeContentNotApproved, domain.CodeOf(err))
}

func TestActivateCompletedCampaignFails(t *testing.T) {
	svc, repo, _, perms := newMockedCampaigns(t)
	perms.EXPECT().HasPermission(mock.Anything, manager, domain.PermCampaignActivate).Return(true, nil)
	repo.EXPECT().GetCampaign(mock.Anything, "camp-1").Return(&domain.MarketingCampaign{
		ID:         "camp-1",
		Status:     domain.CampaignCompleted,
		ContentIDs: []string{"c1"},
	}, nil)

	_, err := svc.ActivateCampaign(managerCtx(), "camp-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot activate")
	assert.ErrorIs(t, err, domain.ErrCannotActivate)
}

func TestPauseRequiresActiveCampaign(t *testing.T) {
	svc, repo, _, perms := newMockedCampaigns(t)
	perms.EXPECT().HasPermission(mock.Anything, manager, domain.PermCampaignActivate).Return(true, nil)
	repo.EXPECT().GetCampaign(mock.Anything, "camp-1").Return(&domain.MarketingCampaign{
		ID:     "camp-1",
		Status: domain.CampaignPlanned,
	}, nil)

	_, err := svc.PauseCampaign(managerCtx(), "camp-1")

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAddContentRestoresCacheOnFailure(t *testing.T) {
	cache := querycache.New(querycache.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = cache.Close() })
	svc, repo, contents, perms := newMockedCampaigns(t, WithCache(cache))

	original := domain.MarketingCampaign{ID: "camp-1", Status: domain.CampaignPlanned, ContentIDs: []string{"c1"}}
	repo.EXPECT().
		GetCampaign(mock.Anything, "camp-1").
		RunAndReturn(func(context.Context, string) (*domain.MarketingCampaign, error) {
			c := original.Clone()
			return &c, nil
		}).
		Times(2)
	perms.EXPECT().HasPermission(mock.Anything, manager, domain.PermCampaignEdit).Return(true, nil)
	contents.EXPECT().GetContent(mock.Anything, mock.Anything).Return(&domain.ContentWorkflow{}, nil)
	repo.EXPECT().UpdateCampaign(mock.Anything, mock.Anything).Return(domain.Store("failed to update campaign", errors.New("conn reset")))

	cached, err := svc.GetCampaign(managerCtx(), "camp-1")
	require.NoError(t, err)
	require.Equal(t, []string{"c1"}, cached.ContentIDs)

	_, err = svc.AddContent(managerCtx(), "camp-1", []string{"c2"})
	require.Error(t, err)
	assert.Equal(t, domain.KindStore, domain.KindOf(err))

	// served from the restored cache entry; GetCampaign is not called a third time
	cached, err = svc.GetCampaign(managerCtx(), "camp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, cached.ContentIDs)
}

func TestCampaignsForShopper(t *testing.T) {
	svc, repo, _, _ := newMockedCampaigns(t)
	running := domain.MarketingCampaign{
		ID:             "running",
		Status:         domain.CampaignActive,
		StartDate:      fixedNow.AddDate(0, 0, -1),
		EndDate:        fixedNow.AddDate(0, 0, 1),
		TargetAudience: domain.TargetAudience{Segments: []string{"vip"}},
	}
	wrongSegment := running
	wrongSegment.ID = "students"
	wrongSegment.TargetAudience = domain.TargetAudience{Segments: []string{"student"}}
	expired := running
	expired.ID = "expired"
	expired.EndDate = fixedNow.AddDate(0, 0, -1)

	repo.EXPECT().
		ListCampaigns(mock.Anything, port.CampaignFilter{Status: domain.CampaignActive}).
		Return([]domain.MarketingCampaign{running, wrongSegment, expired}, nil)

	got, err := svc.CampaignsForShopper(context.Background(), domain.ShopperContext{UserID: "u1", Segments: []string{"vip"}})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "running", got[0].ID)
}
