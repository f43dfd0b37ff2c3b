package domain

import "slices"

// TargetAudience describes who should see a campaign. Empty fields match
// everyone.
type TargetAudience struct {
	Segments []string `json:"segments,omitempty"`
	Regions  []string `json:"regions,omitempty"`
	MinAge   int      `json:"minAge,omitempty"`
	MaxAge   int      `json:"maxAge,omitempty"`
}

// Matches applies the audience filters to a shopper.
func (t TargetAudience) Matches(s ShopperContext) bool {
	if len(t.Regions) > 0 && !slices.Contains(t.Regions, s.Region) {
		return false
	}
	if len(t.Segments) > 0 {
		match := false
		for _, seg := range s.Segments {
			if slices.Contains(t.Segments, seg) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	if s.Age > 0 {
		if t.MinAge > 0 && s.Age < t.MinAge {
			return false
		}
		if t.MaxAge > 0 && s.Age > t.MaxAge {
			return false
		}
	}
	return true
}
