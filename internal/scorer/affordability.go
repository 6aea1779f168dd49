package scorer

import (
	"context"

	"github.com/velowise/velowise-api/internal/domain"
)

const (
	affordabilityBand       = 0.2
	affordabilityConfidence = 0.8
)

// AffordabilityScorer rewards headroom under the user's budget. Items over
// budget are excluded entirely rather than penalized, so fusion can still
// rank them through other signals.
type AffordabilityScorer struct{}

func NewAffordabilityScorer() *AffordabilityScorer { return &AffordabilityScorer{} }

func (s *AffordabilityScorer) Name() string { return "affordability" }

func (s *AffordabilityScorer) Score(_ context.Context, items []domain.CatalogItem, rc *domain.RecommendationContext) ([]domain.PartialScore, error) {
	if rc == nil || rc.Preferences == nil || rc.Preferences.MaxPrice == nil {
		return nil, nil
	}
	maxPrice := *rc.Preferences.MaxPrice

	var out []domain.PartialScore
	for _, item := range items {
		if item.Price > maxPrice {
			continue
		}
		score := (1 - item.Price/maxPrice) * affordabilityBand
		if score <= 0 {
			continue
		}
		out = append(out, domain.PartialScore{
			ItemID:     item.ID,
			Score:      score,
			Reasons:    []string{"leaves room in your budget"},
			Confidence: affordabilityConfidence,
		})
	}
	return out, nil
}
