package domain

import (
	"math"
	"time"
)

// MetricType names a campaign performance series.
type MetricType string

const (
	MetricViews       MetricType = "views"
	MetricClicks      MetricType = "clicks"
	MetricConversions MetricType = "conversions"
	MetricRevenue     MetricType = "revenue"
)

// MetricTypes lists every known series in display order.
var MetricTypes = []MetricType{MetricViews, MetricClicks, MetricConversions, MetricRevenue}

// ValidMetricType reports whether t is a known series.
func ValidMetricType(t MetricType) bool {
	for _, m := range MetricTypes {
		if m == t {
			return true
		}
	}
	return false
}

// CampaignMetric is an append-only fact row.
type CampaignMetric struct {
	ID         string     `json:"id"`
	CampaignID string     `json:"campaignId"`
	Date       time.Time  `json:"date"`
	Type       MetricType `json:"metricType"`
	Value      float64    `json:"value"`
	RecordedAt time.Time  `json:"recordedAt"`
}

// MetricSummary aggregates metric rows on read.
type MetricSummary struct {
	CampaignID           string  `json:"campaignId"`
	Views                float64 `json:"views"`
	Clicks               float64 `json:"clicks"`
	Conversions          float64 `json:"conversions"`
	Revenue              float64 `json:"revenue"`
	ClickThroughRate     float64 `json:"clickThroughRate"`
	ConversionRate       float64 `json:"conversionRate"`
	RevenuePerConversion float64 `json:"revenuePerConversion"`
}

// Summarize totals rows per series and derives the rates. Every rate is zero
// when its denominator is zero.
func Summarize(campaignID string, rows []CampaignMetric) MetricSummary {
	s := MetricSummary{CampaignID: campaignID}
	for _, r := range rows {
		switch r.Type {
		case MetricViews:
			s.Views += r.Value
		case MetricClicks:
			s.Clicks += r.Value
		case MetricConversions:
			s.Conversions += r.Value
		case MetricRevenue:
			s.Revenue += r.Value
		}
	}
	s.ClickThroughRate = ratio(s.Clicks, s.Views)
	s.ConversionRate = ratio(s.Conversions, s.Clicks)
	s.RevenuePerConversion = ratio(s.Revenue, s.Conversions)
	return s
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return round(num/den, 4)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
