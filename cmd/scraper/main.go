package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voltscout/supplier-scraper/internal/browser"
	"github.com/voltscout/supplier-scraper/internal/config"
	"github.com/voltscout/supplier-scraper/internal/models"
	"github.com/voltscout/supplier-scraper/internal/ratelimit"
	"github.com/voltscout/supplier-scraper/internal/scraper"
	"github.com/voltscout/supplier-scraper/internal/storage"
	"github.com/voltscout/supplier-scraper/internal/suppliers"
)

// One-shot scrape: run a single supplier operation and write the result to
// stdout and the snapshot file. For the long-running service see
// cmd/scraperd.
func main() {
	var (
		supplierName = flag.String("supplier", "electricaldirect", "Supplier to scrape")
		kind         = flag.String("kind", "products", "What to scrape: products, deals or coupons")
		category     = flag.String("category", "", "Product category (empty scrapes all categories)")
		output       = flag.String("output", "", "Snapshot file path (defaults to SCRAPER_SNAPSHOT_FILE)")
		headless     = flag.Bool("headless", true, "Run browser in headless mode")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	supplierCfg, ok := suppliers.Lookup(*supplierName)
	if !ok {
		logger.Error("unknown supplier", "supplier", *supplierName)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	opts := cfg.BrowserOptions()
	opts.Headless = *headless && cfg.Browser.Headless

	session, err := browser.New(opts)
	if err != nil {
		logger.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	limiter := ratelimit.NewPolitenessDelay(
		time.Duration(cfg.Scraper.MinDelaySeconds)*time.Second,
		time.Duration(cfg.Scraper.MaxDelaySeconds)*time.Second,
	)
	s := scraper.NewSupplierScraper(scraper.FromSession(session), supplierCfg, limiter)

	result := &models.ScrapeResult{
		Supplier:  supplierCfg.Name,
		Kind:      *kind,
		ScrapedAt: time.Now(),
	}

	switch *kind {
	case "products":
		result.Products, err = s.ScrapeProducts(ctx, *category)
	case "deals":
		result.Deals, err = s.ScrapeDeals(ctx)
	case "coupons":
		result.Coupons, err = s.ScrapeCoupons(ctx)
	default:
		logger.Error("unknown kind", "kind", *kind)
		os.Exit(1)
	}
	if err != nil {
		logger.Error("scrape failed", "supplier", supplierCfg.Name, "kind", *kind, "error", err)
		os.Exit(1)
	}

	logger.Info("scrape finished",
		"supplier", supplierCfg.Name, "kind", *kind, "records", result.Count())

	snapshotFile := *output
	if snapshotFile == "" {
		snapshotFile = cfg.Scraper.SnapshotFile
	}
	if result.Count() > 0 {
		snapshots, err := storage.NewSnapshotStore(snapshotFile)
		if err != nil {
			logger.Error("failed to open snapshot store", "error", err)
			os.Exit(1)
		}
		if err := snapshots.Put(result); err != nil {
			logger.Error("failed to write snapshot", "error", err)
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
}
