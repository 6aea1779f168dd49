package scout

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/velowise/velowise-api/internal/database"
	"github.com/velowise/velowise-api/internal/domain"
)

// Ingestor pulls dealer catalog feeds into the items table.
type Ingestor struct {
	parser  *gofeed.Parser
	catalog database.CatalogRepository
}

func NewIngestor(catalog database.CatalogRepository) *Ingestor {
	return &Ingestor{
		parser:  gofeed.NewParser(),
		catalog: catalog,
	}
}

// Run fetches the feed and upserts every parseable entry, skipping the rest.
// Per-item failures are logged, never fatal; the batch keeps going.
func (in *Ingestor) Run(ctx context.Context, feedURL string, batchSize int) error {
	feed, err := in.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	entries := feed.Items
	if batchSize > 0 && len(entries) > batchSize {
		log.Printf("[Scout] Limiting ingestion to first %d entries (found %d total)", batchSize, len(entries))
		entries = entries[:batchSize]
	}

	imported, skipped := 0, 0
	for _, entry := range entries {
		item, err := MapEntry(entry)
		if err != nil {
			log.Printf("[Scout] Skipping entry %q: %v", entry.Title, err)
			skipped++
			continue
		}
		if err := in.catalog.UpsertItem(ctx, item); err != nil {
			log.Printf("[Scout] Failed to store %s: %v", item.ID, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("[Scout] Feed ingestion complete: %d imported, %d skipped", imported, skipped)
	return nil
}

// MapEntry converts one feed entry into a catalog item. Dealer feeds carry
// the listing attributes as "key:value" categories (brand:Acme, price:1999,
// category:city, range:80, battery:500, weight:24, colors:black|red); the
// entry GUID is the listing id. Entries without an id or a valid price are
// rejected.
func MapEntry(entry *gofeed.Item) (*domain.CatalogItem, error) {
	id := entry.GUID
	if id == "" {
		id = entry.Link
	}
	if id == "" {
		return nil, fmt.Errorf("entry has no GUID or link")
	}

	attrs := map[string]string{}
	for _, c := range entry.Categories {
		key, value, ok := strings.Cut(c, ":")
		if !ok {
			continue
		}
		attrs[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	price, err := strconv.ParseFloat(attrs["price"], 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("entry has no valid price")
	}

	item := &domain.CatalogItem{
		ID:        id,
		Brand:     attrs["brand"],
		Category:  attrs["category"],
		Price:     price,
		RangeKm:   parseOptional(attrs["range"]),
		BatteryWh: parseOptional(attrs["battery"]),
		WeightKg:  parseOptional(attrs["weight"]),
	}
	if colors := attrs["colors"]; colors != "" {
		for _, c := range strings.Split(colors, "|") {
			if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
				item.Colors = append(item.Colors, c)
			}
		}
	}
	return item, nil
}

func parseOptional(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
