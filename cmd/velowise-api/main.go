package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/velowise/velowise-api/internal/config"
	"github.com/velowise/velowise-api/internal/database/bunstore"
	"github.com/velowise/velowise-api/internal/engine"
	"github.com/velowise/velowise-api/internal/server"
)

func main() {
	log.Println("Starting Velowise Recommendation API...")

	cfg := config.GetConfig()

	store, err := bunstore.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	eng := engine.New(store, store, store, store, engine.Options{
		CacheTTL:        time.Duration(cfg.CacheTTLSeconds) * time.Second,
		PeerCap:         cfg.PeerCap,
		TrendWindowDays: cfg.TrendWindowDays,
	})

	srv := server.New(eng, cfg)
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	log.Printf("[Main] Listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.RegisterRoutes()); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
