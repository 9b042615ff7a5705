// stocksent-export archives stored price history and daily sentiment to
// Parquet files for analysis tools.
//
// Usage:
//
//	go build -o bin/stocksent-export ./cmd/stocksent-export/
//	bin/stocksent-export [-config config.yaml] [-tickers AAPL,MSFT] \
//	    -start 2024-01-01 [-end 2024-12-31] [-out archive/]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stocksent/internal/config"
	"stocksent/internal/export"
	"stocksent/internal/store"
	"stocksent/internal/util"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file (optional)")
	tickers := flag.String("tickers", "", "comma-separated tickers to export (default: stored portfolio)")
	start := flag.String("start", "", "start date YYYY-MM-DD (required)")
	end := flag.String("end", "", "end date YYYY-MM-DD (default: today)")
	out := flag.String("out", "", "archive directory (default from config)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	if *start == "" {
		log.Fatal("-start is required")
	}
	endDate := *end
	if endDate == "" {
		endDate = time.Now().Format(util.DateLayout)
	}
	archiveDir := *out
	if archiveDir == "" {
		archiveDir = cfg.Storage.ArchiveDir
	}

	db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	var list []string
	if *tickers != "" {
		for _, t := range strings.Split(*tickers, ",") {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				list = append(list, t)
			}
		}
	} else {
		entries, err := db.ListPortfolio(ctx)
		if err != nil {
			log.Fatalf("failed to read portfolio: %v", err)
		}
		for _, e := range entries {
			list = append(list, e.Ticker)
		}
	}
	if len(list) == 0 {
		log.Fatal("no tickers to export")
	}

	dates, err := util.CalendarDays(*start, endDate)
	if err != nil {
		log.Fatalf("invalid date range: %v", err)
	}

	archive := export.NewParquetArchive(archiveDir)
	for _, ticker := range list {
		prices, err := archive.ExportPrices(ctx, db, ticker, *start, endDate)
		if err != nil {
			log.Fatalf("exporting prices for %s: %v", ticker, err)
		}
		sentiments, err := archive.ExportSentiment(ctx, db, ticker, *start, endDate, dates)
		if err != nil {
			log.Fatalf("exporting sentiment for %s: %v", ticker, err)
		}
		fmt.Printf("%s: %d price rows, %d sentiment rows -> %s\n", ticker, prices, sentiments, archiveDir)
	}
}
