package main

import (
	"context"
	"log"
	"time"

	"github.com/velowise/velowise-api/internal/config"
	"github.com/velowise/velowise-api/internal/database/bunstore"
	"github.com/velowise/velowise-api/internal/scout"
)

func main() {
	cfg := config.GetConfig()
	if cfg.ScoutFeedURL == "" {
		log.Fatal("VW_SCOUT_FEED_URL is required for the scout worker")
	}

	store, err := bunstore.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Printf("Starting Velowise Scout (feed: %s)...", cfg.ScoutFeedURL)
	if err := scout.NewIngestor(store).Run(ctx, cfg.ScoutFeedURL, cfg.ScoutBatchSize); err != nil {
		log.Fatalf("Scout failed: %v", err)
	}
}
