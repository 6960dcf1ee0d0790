package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/i474232898/playercount-ingestion/internal/config"
	"github.com/i474232898/playercount-ingestion/internal/ingest"
	"github.com/i474232898/playercount-ingestion/internal/playercount/minetrack"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: playercount-ingest <historical|most_recent>")
		os.Exit(1)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for the daily-file downloads.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcher := minetrack.NewClient(httpClient, cfg.BaseURL, cfg.ServerIP)

	service, err := ingest.NewService(os.Args[1], fetcher, cfg)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := service.Run(context.Background()); err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}
}
