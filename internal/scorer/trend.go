package scorer

import (
	"context"
	"strings"

	"github.com/velowise/velowise-api/internal/database"
	"github.com/velowise/velowise-api/internal/domain"
)

const (
	trendBand = 0.3

	trendReason = "popular in your area"
)

// TrendScorer scores items by how often nearby users viewed them recently.
type TrendScorer struct {
	analytics  database.AnalyticsRepository
	windowDays int
}

func NewTrendScorer(analytics database.AnalyticsRepository, windowDays int) *TrendScorer {
	return &TrendScorer{analytics: analytics, windowDays: windowDays}
}

func (s *TrendScorer) Name() string { return "locality_trend" }

func (s *TrendScorer) Score(ctx context.Context, _ []domain.CatalogItem, rc *domain.RecommendationContext) ([]domain.PartialScore, error) {
	if rc == nil || rc.Location == nil {
		return nil, nil
	}

	views, err := s.analytics.RecentViews(ctx, s.windowDays)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	var order []string
	maxCount := 0
	for _, v := range views {
		if !nearby(rc.Location, &v.Location) {
			continue
		}
		if counts[v.ItemID] == 0 {
			order = append(order, v.ItemID)
		}
		counts[v.ItemID]++
		if counts[v.ItemID] > maxCount {
			maxCount = counts[v.ItemID]
		}
	}
	if maxCount == 0 {
		return nil, nil
	}

	out := make([]domain.PartialScore, 0, len(order))
	for _, itemID := range order {
		score := float64(counts[itemID]) / float64(maxCount) * trendBand
		out = append(out, domain.PartialScore{
			ItemID:     itemID,
			Score:      score,
			Reasons:    []string{trendReason},
			Confidence: domain.ConfidenceFromScore(score),
		})
	}
	return out, nil
}

// nearby matches on city when both sides have one, falling back to province.
func nearby(ctx, view *domain.Location) bool {
	if ctx.City != "" && view.City != "" {
		return strings.EqualFold(ctx.City, view.City)
	}
	if ctx.Province != "" && view.Province != "" {
		return strings.EqualFold(ctx.Province, view.Province)
	}
	return false
}
