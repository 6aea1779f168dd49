package similarity

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/velowise/velowise-api/internal/domain"
)

const (
	bonusBrand    = 0.30
	bonusPrice    = 0.20
	bonusRange    = 0.15
	bonusBattery  = 0.15
	bonusCategory = 0.20

	// Proximity window for the numeric attributes, relative to the
	// reference item's value. Asymmetric by construction: similar(A)
	// and similar(B) use different denominators.
	proximity = 0.20
)

// Rank scores every catalog item against the reference by attribute
// proximity, keeps positive scores only, and truncates to limit.
// Independent of any user context.
func Rank(reference domain.CatalogItem, items []domain.CatalogItem, limit int) []domain.ScoredResult {
	var results []domain.ScoredResult

	for _, item := range items {
		if item.ID == reference.ID {
			continue
		}

		score := 0.0
		var reasons []string

		if strings.EqualFold(item.Brand, reference.Brand) {
			score += bonusBrand
			reasons = append(reasons, fmt.Sprintf("same brand (%s)", reference.Brand))
		}
		if within(item.Price, reference.Price) {
			score += bonusPrice
			reasons = append(reasons, "similar price")
		}
		if item.RangeKm != nil && reference.RangeKm != nil && within(*item.RangeKm, *reference.RangeKm) {
			score += bonusRange
			reasons = append(reasons, "similar range")
		}
		if item.BatteryWh != nil && reference.BatteryWh != nil && within(*item.BatteryWh, *reference.BatteryWh) {
			score += bonusBattery
			reasons = append(reasons, "similar battery capacity")
		}
		if strings.EqualFold(item.Category, reference.Category) {
			score += bonusCategory
			reasons = append(reasons, fmt.Sprintf("same category (%s)", reference.Category))
		}

		if score > 0 {
			results = append(results, domain.ScoredResult{
				Item:       item,
				Score:      score,
				Reasons:    reasons,
				Confidence: domain.ConfidenceFromScore(score),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// within reports whether value falls inside the proximity window around the
// reference value. A zero reference would make the window degenerate, so
// the bonus is skipped instead.
func within(value, ref float64) bool {
	if ref == 0 {
		return false
	}
	return math.Abs(value-ref)/ref <= proximity
}
