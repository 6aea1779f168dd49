package scorer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velowise/velowise-api/internal/domain"
)

// mockAnalytics implements database.AnalyticsRepository.
type mockAnalytics struct {
	views []domain.ViewEvent
	err   error
}

func (m *mockAnalytics) RecentViews(_ context.Context, _ int) ([]domain.ViewEvent, error) {
	return m.views, m.err
}

func (m *mockAnalytics) RecentActivity(_ context.Context, _ string, _ int) ([]domain.ActivityEvent, error) {
	return nil, nil
}

func (m *mockAnalytics) RecordView(_ context.Context, _ string, _ domain.Location) error {
	return nil
}

func view(itemID, city string) domain.ViewEvent {
	return domain.ViewEvent{ItemID: itemID, Location: domain.Location{City: city}, At: time.Now()}
}

func TestTrendScorer_NoLocation(t *testing.T) {
	s := NewTrendScorer(&mockAnalytics{views: []domain.ViewEvent{view("x1", "Utrecht")}}, 7)

	out, err := s.Score(context.Background(), nil, &domain.RecommendationContext{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTrendScorer_NormalizesToBand(t *testing.T) {
	analytics := &mockAnalytics{views: []domain.ViewEvent{
		view("x1", "Utrecht"), view("x1", "Utrecht"), view("x1", "Utrecht"), view("x1", "Utrecht"),
		view("x2", "Utrecht"),
		view("x3", "Rotterdam"), // elsewhere, filtered out
	}}
	s := NewTrendScorer(analytics, 7)
	rc := &domain.RecommendationContext{Location: &domain.Location{City: "Utrecht"}}

	out, err := s.Score(context.Background(), nil, rc)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "x1", out[0].ItemID)
	assert.InDelta(t, 0.30, out[0].Score, 1e-9) // max count maps to top of band
	assert.Equal(t, "x2", out[1].ItemID)
	assert.InDelta(t, 0.075, out[1].Score, 1e-9) // 1/4 of band
}

func TestTrendScorer_ProvinceFallback(t *testing.T) {
	analytics := &mockAnalytics{views: []domain.ViewEvent{
		{ItemID: "x1", Location: domain.Location{Province: "Gelderland"}, At: time.Now()},
	}}
	s := NewTrendScorer(analytics, 7)
	rc := &domain.RecommendationContext{Location: &domain.Location{Province: "Gelderland"}}

	out, err := s.Score(context.Background(), nil, rc)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 0.30, out[0].Score, 1e-9)
}

func TestTrendScorer_NoViewsInWindow(t *testing.T) {
	s := NewTrendScorer(&mockAnalytics{}, 7)
	rc := &domain.RecommendationContext{Location: &domain.Location{City: "Utrecht"}}

	out, err := s.Score(context.Background(), nil, rc)
	require.NoError(t, err)
	assert.Empty(t, out, "empty feed must not divide by zero")
}
