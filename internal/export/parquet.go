// Package export archives stored pipeline data to Parquet files for
// downstream analysis tools.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"stocksent/internal/store"
)

// ParquetArchive writes price history and daily sentiment to Parquet files
// under a data directory, merging with whatever is already on disk so
// repeated exports are idempotent.
type ParquetArchive struct {
	DataDir string
}

// NewParquetArchive creates an archive rooted at dataDir.
func NewParquetArchive(dataDir string) *ParquetArchive {
	return &ParquetArchive{DataDir: dataDir}
}

// PriceRow is the Parquet schema for daily price rows.
type PriceRow struct {
	Ticker      string  `parquet:"ticker"`
	Date        string  `parquet:"date"`
	Open        float64 `parquet:"open"`
	High        float64 `parquet:"high"`
	Low         float64 `parquet:"low"`
	Close       float64 `parquet:"close"`
	Volume      int64   `parquet:"volume"`
	AdjClose    float64 `parquet:"adj_close"`
	DivCash     float64 `parquet:"div_cash"`
	SplitFactor float64 `parquet:"split_factor"`
}

// SentimentRow is the Parquet schema for daily sentiment rows.
type SentimentRow struct {
	Ticker   string  `parquet:"ticker"`
	Date     string  `parquet:"date"`
	Positive int64   `parquet:"positive"`
	Negative int64   `parquet:"negative"`
	Label    string  `parquet:"label"`
	Score    float64 `parquet:"score"`
}

// ExportPrices archives a ticker's price rows in [start, end] to one file
// per year at <DataDir>/prices/<TICKER>/<YYYY>.parquet. Returns the number
// of rows exported.
func (a *ParquetArchive) ExportPrices(ctx context.Context, prices store.PriceStore, ticker, start, end string) (int, error) {
	records, err := prices.PricesInRange(ctx, ticker, start, end)
	if err != nil {
		return 0, fmt.Errorf("reading prices for %s: %w", ticker, err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	byYear := make(map[string][]PriceRow)
	for _, r := range records {
		year := yearOf(r.Date)
		byYear[year] = append(byYear[year], PriceRow{
			Ticker:      r.Ticker,
			Date:        r.Date,
			Open:        r.Open,
			High:        r.High,
			Low:         r.Low,
			Close:       r.Close,
			Volume:      r.Volume,
			AdjClose:    r.AdjClose,
			DivCash:     r.DivCash,
			SplitFactor: r.SplitFactor,
		})
	}

	for year, rows := range byYear {
		path := a.pricePath(ticker, year)
		existing, _ := readParquetFile[PriceRow](path)
		merged := mergeRows(existing, rows, func(r PriceRow) string { return r.Ticker + "|" + r.Date })
		if err := writeParquetFile(path, merged); err != nil {
			return 0, fmt.Errorf("writing prices for %s/%s: %w", ticker, year, err)
		}
	}
	return len(records), nil
}

// ExportSentiment archives daily sentiment rows for a ticker's articles in
// [start, end] to <DataDir>/sentiment/<TICKER>.parquet. Only dates whose
// aggregate was last written by this ticker are included.
func (a *ParquetArchive) ExportSentiment(ctx context.Context, sentiments store.SentimentStore, ticker, start, end string, dates []string) (int, error) {
	var rows []SentimentRow
	for _, date := range dates {
		d, err := sentiments.DailySentimentByDate(ctx, date)
		if err != nil {
			return 0, fmt.Errorf("reading daily sentiment %s: %w", date, err)
		}
		if d == nil || d.Ticker != strings.ToUpper(ticker) {
			continue
		}
		rows = append(rows, SentimentRow{
			Ticker:   d.Ticker,
			Date:     d.Date,
			Positive: int64(d.Positive),
			Negative: int64(d.Negative),
			Label:    string(d.Label),
			Score:    d.Score,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	path := a.sentimentPath(ticker)
	existing, _ := readParquetFile[SentimentRow](path)
	merged := mergeRows(existing, rows, func(r SentimentRow) string { return r.Ticker + "|" + r.Date })
	if err := writeParquetFile(path, merged); err != nil {
		return 0, fmt.Errorf("writing sentiment for %s: %w", ticker, err)
	}
	return len(rows), nil
}

// ReadPrices reads archived price rows back for the given ticker and years.
func (a *ParquetArchive) ReadPrices(ticker string, years []string) ([]PriceRow, error) {
	var out []PriceRow
	for _, year := range years {
		rows, err := readParquetFile[PriceRow](a.pricePath(ticker, year))
		if err != nil {
			// No archive for this year.
			continue
		}
		out = append(out, rows...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ListTickers lists tickers that have an archived price directory.
func (a *ParquetArchive) ListTickers() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.DataDir, "prices"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var tickers []string
	for _, e := range entries {
		if e.IsDir() {
			tickers = append(tickers, e.Name())
		}
	}
	sort.Strings(tickers)
	return tickers, nil
}

// pricePath layout: <DataDir>/prices/<TICKER>/<YYYY>.parquet
func (a *ParquetArchive) pricePath(ticker, year string) string {
	return filepath.Join(a.DataDir, "prices", strings.ToUpper(ticker), year+".parquet")
}

// sentimentPath layout: <DataDir>/sentiment/<TICKER>.parquet
func (a *ParquetArchive) sentimentPath(ticker string) string {
	return filepath.Join(a.DataDir, "sentiment", strings.ToUpper(ticker)+".parquet")
}

func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}

// mergeRows deduplicates rows by key, preferring incoming over existing,
// and returns them sorted by key.
func mergeRows[T any](existing, incoming []T, key func(T) string) []T {
	seen := make(map[string]T, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key(r)] = r
	}
	for _, r := range incoming {
		seen[key(r)] = r
	}

	merged := make([]T, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return key(merged[i]) < key(merged[j]) })
	return merged
}
