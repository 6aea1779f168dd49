package scorer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velowise/velowise-api/internal/domain"
)

func TestAffordabilityScorer_NoBudget(t *testing.T) {
	s := NewAffordabilityScorer()

	out, err := s.Score(context.Background(), []domain.CatalogItem{{ID: "x1", Price: 100}}, prefContext(&domain.UserPreferences{}))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAffordabilityScorer_Formula(t *testing.T) {
	s := NewAffordabilityScorer()
	items := []domain.CatalogItem{
		{ID: "cheap", Price: 500},
		{ID: "mid", Price: 1000},
		{ID: "exact", Price: 1500},
		{ID: "over", Price: 1501},
	}
	prefs := &domain.UserPreferences{MaxPrice: f64(1500)}

	out, err := s.Score(context.Background(), items, prefContext(prefs))
	require.NoError(t, err)
	require.Len(t, out, 2, "at-budget scores zero and over-budget is excluded")

	assert.Equal(t, "cheap", out[0].ItemID)
	assert.InDelta(t, (1-500.0/1500)*0.2, out[0].Score, 1e-9)
	assert.Equal(t, 0.8, out[0].Confidence)

	assert.Equal(t, "mid", out[1].ItemID)
	assert.InDelta(t, (1-1000.0/1500)*0.2, out[1].Score, 1e-9)
}
