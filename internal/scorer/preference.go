package scorer

import (
	"context"
	"fmt"

	"github.com/velowise/velowise-api/internal/domain"
)

// Preference bonus weights. Fixed by design: the blend stays explainable
// because every bonus maps to one reason string.
const (
	bonusCategory = 0.30
	bonusBrand    = 0.20
	bonusPrice    = 0.20
	bonusWeight   = 0.10
	bonusRange    = 0.10
	bonusColor    = 0.05
)

// PreferenceScorer matches items against the user's declared preferences.
// Purely content-based: no other user's behavior is consulted.
type PreferenceScorer struct{}

func NewPreferenceScorer() *PreferenceScorer { return &PreferenceScorer{} }

func (s *PreferenceScorer) Name() string { return "preference_match" }

func (s *PreferenceScorer) Score(_ context.Context, items []domain.CatalogItem, rc *domain.RecommendationContext) ([]domain.PartialScore, error) {
	if rc == nil || rc.Preferences == nil {
		return nil, nil
	}
	prefs := rc.Preferences

	var out []domain.PartialScore
	for _, item := range items {
		score := 0.0
		var reasons []string

		if containsFold(prefs.PreferredCategories, item.Category) {
			score += bonusCategory
			reasons = append(reasons, fmt.Sprintf("matches preferred category %q", item.Category))
		}
		if containsFold(prefs.PreferredBrands, item.Brand) {
			score += bonusBrand
			reasons = append(reasons, fmt.Sprintf("preferred brand %s", item.Brand))
		}
		if prefs.MaxPrice != nil && item.Price <= *prefs.MaxPrice {
			score += bonusPrice
			reasons = append(reasons, "within your budget")
		}
		if prefs.MaxWeight != nil && item.WeightKg != nil && *item.WeightKg <= *prefs.MaxWeight {
			score += bonusWeight
			reasons = append(reasons, "light enough for you")
		}
		if prefs.MinRange != nil && item.RangeKm != nil && *item.RangeKm >= *prefs.MinRange {
			score += bonusRange
			reasons = append(reasons, "meets your range requirement")
		}
		if anyOverlapFold(item.Colors, prefs.PreferredColors) {
			score += bonusColor
			reasons = append(reasons, "available in a preferred color")
		}

		if score > 0 {
			out = append(out, domain.PartialScore{
				ItemID:     item.ID,
				Score:      score,
				Reasons:    reasons,
				Confidence: domain.ConfidenceFromScore(score),
			})
		}
	}
	return out, nil
}
