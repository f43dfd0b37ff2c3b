package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCampaign() MarketingCampaign {
	return MarketingCampaign{
		ID:                 "c1",
		Type:               CampaignPromotional,
		StartDate:          at,
		EndDate:            at.AddDate(0, 0, 7),
		DiscountPercentage: 10,
		Status:             CampaignPlanned,
	}
}

func TestCampaignCheckRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *MarketingCampaign)
		code   Code
	}{
		{"valid", func(*MarketingCampaign) {}, ""},
		{"end equals start", func(c *MarketingCampaign) { c.EndDate = c.StartDate }, CodeCampaignDateRange},
		{"discount above 100", func(c *MarketingCampaign) { c.DiscountPercentage = 101 }, CodeValidationFailed},
		{"clearance below 25", func(c *MarketingCampaign) {
			c.Type = CampaignClearance
			c.DiscountPercentage = 20
		}, CodeClearanceDiscount},
		{"clearance at 25", func(c *MarketingCampaign) {
			c.Type = CampaignClearance
			c.DiscountPercentage = 25
		}, ""},
		{"inverted ages", func(c *MarketingCampaign) {
			c.TargetAudience = TargetAudience{MinAge: 40, MaxAge: 20}
		}, CodeValidationFailed},
		{"overspent budget", func(c *MarketingCampaign) {
			c.Budget = &Budget{Total: decimal.NewFromInt(10), Spent: decimal.NewFromInt(11), Currency: "USD"}
		}, CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCampaign()
			tt.mutate(&c)
			err := c.CheckRules()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.code, CodeOf(err))
		})
	}
}

func TestCampaignStatusGraph(t *testing.T) {
	c := validCampaign()

	require.ErrorIs(t, c.MoveTo(CampaignPaused, at), ErrInvalidTransition)
	require.NoError(t, c.Activate(at))
	require.NoError(t, c.MoveTo(CampaignPaused, at))

	err := c.MoveTo(CampaignActive, at)
	require.ErrorIs(t, err, ErrCannotActivate)
	assert.Contains(t, err.Error(), "Cannot activate campaign c1 in status paused")

	require.NoError(t, c.MoveTo(CampaignCompleted, at))
	assert.False(t, CanTransitionCampaign(CampaignCompleted, CampaignActive))
}

func TestCampaignAddContentDedups(t *testing.T) {
	c := validCampaign()
	c.ContentIDs = []string{"a"}

	added := c.AddContent("b", "a", " ", "b", "c")

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"a", "b", "c"}, c.ContentIDs)
}

func TestCampaignIsRunning(t *testing.T) {
	c := validCampaign()
	assert.False(t, c.IsRunning(at))

	require.NoError(t, c.Activate(at))
	assert.True(t, c.IsRunning(at))
	assert.False(t, c.IsRunning(c.EndDate))
	assert.False(t, c.IsRunning(at.Add(-time.Second)))
}

func TestAudienceMatches(t *testing.T) {
	a := TargetAudience{Segments: []string{"vip"}, Regions: []string{"EU"}, MinAge: 18, MaxAge: 30}

	assert.True(t, a.Matches(ShopperContext{Region: "EU", Segments: []string{"new", "vip"}, Age: 25}))
	assert.True(t, a.Matches(ShopperContext{Region: "EU", Segments: []string{"vip"}}))
	assert.False(t, a.Matches(ShopperContext{Region: "US", Segments: []string{"vip"}, Age: 25}))
	assert.False(t, a.Matches(ShopperContext{Region: "EU", Segments: []string{"new"}, Age: 25}))
	assert.False(t, a.Matches(ShopperContext{Region: "EU", Segments: []string{"vip"}, Age: 31}))
	assert.True(t, TargetAudience{}.Matches(ShopperContext{}))
}
