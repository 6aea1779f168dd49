package scout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velowise/velowise-api/internal/domain"
)

// mockCatalog implements database.CatalogRepository.
type mockCatalog struct {
	stored []domain.CatalogItem
}

func (m *mockCatalog) ListItems(_ context.Context) ([]domain.CatalogItem, error) {
	return m.stored, nil
}

func (m *mockCatalog) GetItem(_ context.Context, _ string) (*domain.CatalogItem, error) {
	return nil, nil
}

func (m *mockCatalog) UpsertItem(_ context.Context, item *domain.CatalogItem) error {
	m.stored = append(m.stored, *item)
	return nil
}

func TestMapEntry(t *testing.T) {
	entry := &gofeed.Item{
		Title: "Acme Metro 500",
		GUID:  "x1",
		Categories: []string{
			"brand:Acme", "category:city", "price:1999",
			"range:80", "battery:500", "weight:24", "colors:black|Red",
		},
	}

	item, err := MapEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, "x1", item.ID)
	assert.Equal(t, "Acme", item.Brand)
	assert.Equal(t, "city", item.Category)
	assert.Equal(t, 1999.0, item.Price)
	require.NotNil(t, item.RangeKm)
	assert.Equal(t, 80.0, *item.RangeKm)
	require.NotNil(t, item.BatteryWh)
	assert.Equal(t, 500.0, *item.BatteryWh)
	require.NotNil(t, item.WeightKg)
	assert.Equal(t, 24.0, *item.WeightKg)
	assert.Equal(t, []string{"black", "red"}, item.Colors)
}

func TestMapEntry_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		entry *gofeed.Item
	}{
		{"no id", &gofeed.Item{Categories: []string{"price:1000"}}},
		{"no price", &gofeed.Item{GUID: "x1", Categories: []string{"brand:Acme"}}},
		{"bad price", &gofeed.Item{GUID: "x1", Categories: []string{"price:duur"}}},
		{"negative price", &gofeed.Item{GUID: "x1", Categories: []string{"price:-50"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MapEntry(tc.entry)
			assert.Error(t, err)
		})
	}
}

func TestMapEntry_InvalidOptionalDropped(t *testing.T) {
	entry := &gofeed.Item{
		GUID:       "x1",
		Categories: []string{"price:1000", "range:unknown", "weight:-2"},
	}

	item, err := MapEntry(entry)
	require.NoError(t, err)
	assert.Nil(t, item.RangeKm)
	assert.Nil(t, item.WeightKg)
}

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Dealer listings</title>
    <item>
      <title>Acme Metro 500</title>
      <guid>x1</guid>
      <category>brand:Acme</category>
      <category>category:city</category>
      <category>price:1999</category>
    </item>
    <item>
      <title>Bolt Trail X</title>
      <guid>x2</guid>
      <category>brand:Bolt</category>
      <category>category:mountain</category>
      <category>price:3499</category>
    </item>
    <item>
      <title>Broken entry without price</title>
      <guid>x3</guid>
      <category>brand:Cube</category>
    </item>
  </channel>
</rss>`

func TestIngestor_Run(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeed))
	}))
	defer ts.Close()

	catalog := &mockCatalog{}
	err := NewIngestor(catalog).Run(context.Background(), ts.URL, 0)
	require.NoError(t, err)

	require.Len(t, catalog.stored, 2, "the unpriced entry is skipped, not fatal")
	assert.Equal(t, "x1", catalog.stored[0].ID)
	assert.Equal(t, "x2", catalog.stored[1].ID)
}

func TestIngestor_RunBatchLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testFeed))
	}))
	defer ts.Close()

	catalog := &mockCatalog{}
	err := NewIngestor(catalog).Run(context.Background(), ts.URL, 1)
	require.NoError(t, err)
	assert.Len(t, catalog.stored, 1)
}

func TestIngestor_RunFeedDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	err := NewIngestor(&mockCatalog{}).Run(context.Background(), ts.URL, 0)
	assert.Error(t, err)
}
