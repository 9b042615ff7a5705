// stocksent syncs price history, news, and sentiment for a set of tickers.
//
// Tickers come from the -tickers flag or, when omitted, from the stored
// portfolio. Credentials are read from the environment (a .env file is
// loaded if present).
//
// Usage:
//
//	go build -o bin/stocksent ./cmd/stocksent/
//	bin/stocksent [-config config.yaml] [-tickers AAPL,MSFT] [-days 14]
//	bin/stocksent -remove AAPL
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"stocksent/internal/config"
	"stocksent/internal/domain"
	"stocksent/internal/gather"
	"stocksent/internal/provider"
	"stocksent/internal/store"
	"stocksent/internal/util"
	"stocksent/internal/vocab"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file (optional)")
	tickers := flag.String("tickers", "", "comma-separated tickers to sync (default: stored portfolio)")
	days := flag.Int("days", 0, "trailing window in calendar days (default from config)")
	remove := flag.String("remove", "", "remove a ticker and all of its data, then exit")
	addOnly := flag.Bool("add", false, "add -tickers to the portfolio without syncing")
	flag.Parse()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *remove != "" {
		ticker := strings.ToUpper(strings.TrimSpace(*remove))
		if err := db.DeleteTicker(ctx, ticker); err != nil {
			log.Fatalf("failed to remove %s: %v", ticker, err)
		}
		fmt.Printf("removed %s\n", ticker)
		return
	}

	list, err := resolveTickers(ctx, db, *tickers)
	if err != nil {
		log.Fatal(err)
	}
	if len(list) == 0 {
		log.Fatal("no tickers: pass -tickers or add some to the portfolio first")
	}
	if *addOnly {
		fmt.Printf("portfolio now tracks %s\n", strings.Join(list, ", "))
		return
	}

	window := *days
	if window <= 0 {
		window = cfg.Sync.Days
	}

	v, err := vocab.Load()
	if err != nil {
		log.Fatalf("failed to load vocabulary: %v", err)
	}

	priceAPI := provider.NewPriceClient(provider.PriceClientOptions{
		BaseURL: cfg.Providers.Price.BaseURL,
		Token:   cfg.Providers.Price.Token,
		Logger:  logger,
	})
	newsAPI := provider.NewNewsClient(provider.NewsClientOptions{
		BaseURL:        cfg.Providers.News.BaseURL,
		APIKey:         cfg.Providers.News.APIKey,
		PageRatePerMin: cfg.Providers.News.PageRatePerMin,
		Logger:         logger,
	})

	progress := make(chan gather.Progress, 256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			if p.Date != "" {
				fmt.Printf("  [%s] %s %s\n", p.Ticker, p.Stage, p.Date)
			} else {
				fmt.Printf("[%s] %s\n", p.Ticker, p.Message)
			}
		}
	}()

	o := gather.NewOrchestrator(
		gather.NewPriceSync(priceAPI, db, db, logger),
		gather.NewNewsSync(newsAPI, db, logger),
		gather.NewSentimentSync(db, db, v, logger),
		progress, logger)

	results := o.SyncTickers(ctx, list, window)
	close(progress)
	<-done

	failed := 0
	for _, r := range results {
		fmt.Printf("%s: %d price rows, %d articles, %d analyzed over %d days\n",
			r.Ticker, r.StockRecords, r.NewsArticles, r.SentimentAnalyses, r.DaysProcessed)
		for _, e := range r.Errors {
			fmt.Printf("  error: %s\n", e)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// resolveTickers returns the upper-cased ticker list from the flag, storing
// any new ones in the portfolio, or the stored portfolio when the flag is
// empty.
func resolveTickers(ctx context.Context, db *store.SQLiteStore, flagValue string) ([]string, error) {
	if flagValue == "" {
		entries, err := db.ListPortfolio(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading portfolio: %w", err)
		}
		var list []string
		for _, e := range entries {
			list = append(list, e.Ticker)
		}
		return list, nil
	}

	var list []string
	for _, t := range strings.Split(flagValue, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if err := db.UpsertPortfolioEntry(ctx, &domain.PortfolioEntry{Ticker: t}); err != nil {
			return nil, fmt.Errorf("adding %s to portfolio: %w", t, err)
		}
		list = append(list, t)
	}
	return list, nil
}
