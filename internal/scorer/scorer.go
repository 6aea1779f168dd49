package scorer

import (
	"context"
	"strings"

	"github.com/velowise/velowise-api/internal/domain"
)

// Signal is one independent scoring source. Implementations are pure over
// their inputs: no shared mutable state, no dependence on the order the
// signals run in, and only strictly positive partial scores in the output.
type Signal interface {
	Name() string
	Score(ctx context.Context, items []domain.CatalogItem, rc *domain.RecommendationContext) ([]domain.PartialScore, error)
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func anyOverlapFold(a, b []string) bool {
	for _, v := range a {
		if containsFold(b, v) {
			return true
		}
	}
	return false
}
