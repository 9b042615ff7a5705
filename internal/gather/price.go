// Package gather implements the sync pipeline: price history, news
// ingestion, sentiment analysis, and the orchestrator that runs them in
// order for each ticker.
package gather

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"stocksent/internal/domain"
	"stocksent/internal/provider"
	"stocksent/internal/store"
	"stocksent/internal/util"
)

// PriceAPI is the slice of the price provider the price sync depends on.
type PriceAPI interface {
	FetchPrices(ctx context.Context, ticker, startDate, endDate string) ([]provider.PricePoint, error)
	FetchMetadata(ctx context.Context, ticker string) (*provider.SymbolInfo, error)
}

// PriceSync fills gaps in stored daily price history and, on first contact
// with a ticker, records its symbol metadata.
type PriceSync struct {
	api     PriceAPI
	prices  store.PriceStore
	symbols store.SymbolStore
	log     *slog.Logger
}

// NewPriceSync wires a price sync against an API client and a store.
func NewPriceSync(api PriceAPI, prices store.PriceStore, symbols store.SymbolStore, logger *slog.Logger) *PriceSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceSync{api: api, prices: prices, symbols: symbols, log: logger.With("sync", "price")}
}

// Sync ensures price rows exist for every expected trading day of ticker in
// [start, end]. When every expected day is already stored no network call is
// made. Otherwise the full range is fetched and only the missing dates are
// inserted, so re-running the same window never duplicates rows. Returns the
// number of rows inserted.
func (p *PriceSync) Sync(ctx context.Context, ticker, start, end string) (int, error) {
	expected, err := util.TradingDays(start, end)
	if err != nil {
		return 0, err
	}

	stored, err := p.prices.PriceDatesInRange(ctx, ticker, start, end)
	if err != nil {
		return 0, err
	}

	missing := 0
	for _, day := range expected {
		if !stored[day] {
			missing++
		}
	}
	if missing == 0 {
		p.log.Debug("price range fully covered", "ticker", ticker, "start", start, "end", end)
		return 0, nil
	}

	p.log.Info("fetching price history", "ticker", ticker,
		"start", start, "end", end, "missing_days", missing)

	points, err := p.api.FetchPrices(ctx, ticker, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetching prices for %s: %w", ticker, err)
	}

	var records []domain.PriceRecord
	for _, pt := range points {
		r := transformPricePoint(ticker, pt)
		if stored[r.Date] {
			continue
		}
		records = append(records, r)
	}
	if err := p.prices.InsertPriceRecords(ctx, records); err != nil {
		return 0, fmt.Errorf("storing prices for %s: %w", ticker, err)
	}

	p.ensureMetadata(ctx, ticker)

	return len(records), nil
}

// ensureMetadata fetches and stores symbol metadata the first time a ticker
// is synced. Failures are logged and swallowed: metadata is enrichment, not
// a requirement for price history.
func (p *PriceSync) ensureMetadata(ctx context.Context, ticker string) {
	exists, err := p.symbols.SymbolExists(ctx, ticker)
	if err != nil {
		p.log.Warn("checking symbol metadata", "ticker", ticker, "error", err)
		return
	}
	if exists {
		return
	}

	info, err := p.api.FetchMetadata(ctx, ticker)
	if err != nil {
		p.log.Warn("fetching symbol metadata", "ticker", ticker, "error", err)
		return
	}
	sym := &domain.SymbolMetadata{
		Ticker:       ticker,
		Name:         info.Name,
		ExchangeCode: info.ExchangeCode,
		StartDate:    info.StartDate,
		EndDate:      info.EndDate,
		Description:  info.Description,
	}
	if err := p.symbols.InsertSymbol(ctx, sym); err != nil {
		p.log.Warn("storing symbol metadata", "ticker", ticker, "error", err)
	}
}

// transformPricePoint converts a provider bar into a store row: the date is
// truncated to YYYY-MM-DD and OHLC values are rounded to cents.
func transformPricePoint(ticker string, pt provider.PricePoint) domain.PriceRecord {
	return domain.PriceRecord{
		Ticker:      strings.ToUpper(ticker),
		Date:        truncateDate(pt.Date),
		Open:        round2(pt.Open),
		High:        round2(pt.High),
		Low:         round2(pt.Low),
		Close:       round2(pt.Close),
		Volume:      pt.Volume,
		AdjOpen:     round2(pt.AdjOpen),
		AdjHigh:     round2(pt.AdjHigh),
		AdjLow:      round2(pt.AdjLow),
		AdjClose:    round2(pt.AdjClose),
		AdjVolume:   pt.AdjVolume,
		DivCash:     pt.DivCash,
		SplitFactor: pt.SplitFactor,
	}
}

// truncateDate reduces a provider timestamp ("2024-06-10T00:00:00.000Z") to
// its date part.
func truncateDate(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
