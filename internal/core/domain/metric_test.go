package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	rows := []CampaignMetric{
		{Type: MetricViews, Value: 600},
		{Type: MetricViews, Value: 400},
		{Type: MetricClicks, Value: 30},
		{Type: MetricConversions, Value: 3},
		{Type: MetricRevenue, Value: 100},
	}

	s := Summarize("c1", rows)

	assert.Equal(t, 1000.0, s.Views)
	assert.Equal(t, 0.03, s.ClickThroughRate)
	assert.Equal(t, 0.1, s.ConversionRate)
	assert.Equal(t, 33.3333, s.RevenuePerConversion)
}

func TestSummarizeZeroDenominators(t *testing.T) {
	s := Summarize("c1", []CampaignMetric{{Type: MetricRevenue, Value: 50}})

	assert.Zero(t, s.ClickThroughRate)
	assert.Zero(t, s.ConversionRate)
	assert.Zero(t, s.RevenuePerConversion)
	assert.Equal(t, 50.0, s.Revenue)
}
