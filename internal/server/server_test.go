package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/velowise/velowise-api/internal/config"
	"github.com/velowise/velowise-api/internal/database"
	"github.com/velowise/velowise-api/internal/database/models"
	"github.com/velowise/velowise-api/internal/domain"
	"github.com/velowise/velowise-api/internal/engine"
)

// fixture repositories implementing the database interfaces.

type fixtureCatalog struct {
	items []domain.CatalogItem
}

func (f *fixtureCatalog) ListItems(_ context.Context) ([]domain.CatalogItem, error) {
	return f.items, nil
}

func (f *fixtureCatalog) GetItem(_ context.Context, id string) (*domain.CatalogItem, error) {
	for _, item := range f.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fixtureCatalog) UpsertItem(_ context.Context, _ *domain.CatalogItem) error { return nil }

type fixtureUsers struct{}

func (fixtureUsers) GetUser(_ context.Context, id string) (*models.User, error) {
	if id != "u1" {
		return nil, database.ErrNotFound
	}
	return &models.User{ID: "u1"}, nil
}

func (fixtureUsers) GetPreferences(_ context.Context, _ string) (*domain.UserPreferences, error) {
	maxPrice := 1500.0
	return &domain.UserPreferences{PreferredBrands: []string{"Acme"}, MaxPrice: &maxPrice}, nil
}

type fixtureSocial struct{}

func (fixtureSocial) FindSimilarUsers(_ context.Context, _ string, _ int) ([]string, error) {
	return nil, nil
}
func (fixtureSocial) GetFavorites(_ context.Context, _ string) ([]string, error) { return nil, nil }

type fixtureAnalytics struct{}

func (fixtureAnalytics) RecentViews(_ context.Context, _ int) ([]domain.ViewEvent, error) {
	return nil, nil
}
func (fixtureAnalytics) RecentActivity(_ context.Context, _ string, _ int) ([]domain.ActivityEvent, error) {
	return nil, nil
}
func (fixtureAnalytics) RecordView(_ context.Context, _ string, _ domain.Location) error { return nil }

func newTestServer() *httptest.Server {
	eng := engine.New(
		&fixtureCatalog{items: []domain.CatalogItem{
			{ID: "x1", Brand: "Acme", Category: "city", Price: 1000},
			{ID: "x2", Brand: "Acme", Category: "mountain", Price: 3000},
		}},
		fixtureUsers{}, fixtureSocial{}, fixtureAnalytics{},
		engine.Options{CacheTTL: time.Minute},
	)
	srv := New(eng, &config.Config{DefaultLimit: 10, MaxLimit: 50})
	return httptest.NewServer(srv.RegisterRoutes())
}

func TestHandleRecommendations(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/u1/recommendations")
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Results []domain.ScoredResult `json:"results"`
		Count   int                   `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Count != 2 || body.Results[0].Item.ID != "x1" {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestHandleRecommendations_UnknownUserIsEmpty(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/users/ghost/recommendations")
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 with empty list, got %d", resp.StatusCode)
	}

	var body struct {
		Count int `json:"count"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Count != 0 {
		t.Errorf("Expected empty result set, got %d", body.Count)
	}
}

func TestHandleSimilar_NotFound(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/items/nope/similar")
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown item, got %d", resp.StatusCode)
	}
}

func TestHandleSimilar_OK(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/items/x1/similar?limit=5")
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestHandleIntent_InvalidPayload(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/intent", "application/json", strings.NewReader("{invalid"))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid payload, got %d", resp.StatusCode)
	}
}

func TestHandleIntent_EmptyQuery(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{"query": ""})
	resp, err := http.Post(ts.URL+"/api/v1/intent", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty query, got %d", resp.StatusCode)
	}
}

func TestHandleIntent_Classifies(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{"query": "budget goedkoop fiets"})
	resp, err := http.Post(ts.URL+"/api/v1/intent", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		Intent  string `json:"intent"`
		Filters struct {
			MaxPrice *float64 `json:"max_price"`
		} `json:"suggested_filters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.Intent != "budget_search" {
		t.Errorf("Expected budget_search, got %s", got.Intent)
	}
	if got.Filters.MaxPrice == nil {
		t.Error("Expected a max_price filter in the suggestion")
	}
}

func TestHandleCacheClear(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/cache", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}
}

func TestParseLimit(t *testing.T) {
	s := New(nil, &config.Config{DefaultLimit: 10, MaxLimit: 50})

	cases := []struct {
		raw  string
		want int
	}{
		{"", 10},
		{"5", 5},
		{"0", 10},
		{"-3", 10},
		{"abc", 10},
		{"500", 50},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/?limit="+tc.raw, nil)
		if got := s.parseLimit(r); got != tc.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}
