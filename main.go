package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"funda-scraper/config"
	"funda-scraper/scraper/funda"
	"funda-scraper/services"
	"funda-scraper/storage"
	"funda-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Funda Listing Pipeline starting ===")
	logger.Info("Config — mode: %s | rate: %dms | retries: %d",
		cfg.FetchMode, cfg.RateLimitMs, cfg.MaxRetries)

	ids := listingIDs(cfg)
	if len(ids) == 0 {
		logger.Error("No listing ids supplied. Set LISTING_IDS or pass ids as arguments.")
		os.Exit(1)
	}
	logger.Info("Batch input: %d unique listing ids", len(ids))

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	fetch := newFetcher(cfg, logger)

	batch := services.NewBatchFetcher(logger, time.Duration(cfg.RateLimitMs)*time.Millisecond)
	result := batch.Run(ids, fetch)

	if len(result.Records) == 0 {
		logger.Error("No listings were fetched. Exiting.")
		os.Exit(1)
	}

	if len(result.FailedIDs) > 0 {
		logger.Warn("Failed listing ids: %s", strings.Join(result.FailedIDs, ", "))
	}

	if err := csvWriter.Write(result.Records); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Canonical records saved to %s", cfg.CSVOutputPath)
	}

	if err := pgWriter.Write(result.Records); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
	} else {
		logger.Info("Canonical records stored in PostgreSQL (table: listings)")
	}

	dbRecords, err := pgWriter.FetchAll()
	if err != nil {
		logger.Error("Failed to fetch records from DB for insights: %v", err)
		dbRecords = result.Records
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(dbRecords)
	insightSvc.Print(report)

	fmt.Printf("  Done. %d normalized, %d failed in %v — CSV → %s | PostgreSQL → listings\n\n",
		len(result.Records), len(result.FailedIDs),
		result.Elapsed.Round(time.Millisecond), cfg.CSVOutputPath)
}

// newFetcher picks the fetch path per config. The browser path is for
// pages that refuse plain HTTP clients.
func newFetcher(cfg *config.Config, logger *utils.Logger) services.FetchFunc {
	if cfg.FetchMode == "browser" {
		return funda.NewBrowserFetcher(cfg, logger).Fetch
	}
	return funda.New(cfg, logger).Fetch
}

// listingIDs merges ids from config and CLI args, deduplicated, order kept.
func listingIDs(cfg *config.Config) []string {
	candidates := append(cfg.IDs(), os.Args[1:]...)

	seen := utils.NewIDSet()
	ids := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if seen.Add(id) {
			ids = append(ids, id)
		}
	}
	return ids
}
