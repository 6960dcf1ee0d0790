package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/playercount-ingestion/internal/playercount"
)

type AppConfig struct {
	// Remote daily export location and the server identity to keep.
	BaseURL  string
	ServerIP string

	// Data directory holding the legacy baseline and the output file.
	DataDir    string
	OutputFile string
	LegacyFile string

	// First date covered by the remote source's exports.
	ExportStartDate time.Time

	// Timeout for each outbound daily-file request.
	HTTPTimeout time.Duration

	// IngestInterval controls how often the server binary extends the series.
	IngestInterval time.Duration

	Port string
}

// Load reads configuration from environment with defaults that need no
// environment at all.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.BaseURL = getenvDefault("MINETRACK_BASE_URL", "https://dl.minetrack.me/Java")
	cfg.ServerIP = getenvDefault("TARGET_SERVER_IP", playercount.ServerIP)

	cfg.DataDir = getenvDefault("DATA_DIR", "data")
	cfg.OutputFile = getenvDefault("OUTPUT_FILE", "player_counts.csv")
	cfg.LegacyFile = getenvDefault("LEGACY_FILE", filepath.Join("old", "legacy_data.csv"))

	startStr := getenvDefault("EXPORT_START_DATE", playercount.ExportStartDate.Format("2006-01-02"))
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_START_DATE: %w", err)
	}
	cfg.ExportStartDate = start.UTC()

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Daily files appear once a day; a few hours between runs is plenty.
	intervalStr := getenvDefault("INGEST_INTERVAL", "6h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_INTERVAL: %w", err)
	}
	cfg.IngestInterval = interval

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// OutputPath is where the merged series is persisted.
func (c *AppConfig) OutputPath() string {
	return filepath.Join(c.DataDir, c.OutputFile)
}

// LegacyPath is where the pre-export history lives.
func (c *AppConfig) LegacyPath() string {
	return filepath.Join(c.DataDir, c.LegacyFile)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
