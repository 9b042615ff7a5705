package export

import (
	"context"
	"path/filepath"
	"testing"

	"stocksent/internal/domain"
	"stocksent/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "export.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestExportPrices(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []domain.PriceRecord{
		{Ticker: "AAPL", Date: "2023-12-29", Open: 1, High: 2, Low: 1, Close: 2, Volume: 10, SplitFactor: 1},
		{Ticker: "AAPL", Date: "2024-01-02", Open: 2, High: 3, Low: 2, Close: 3, Volume: 20, SplitFactor: 1},
		{Ticker: "AAPL", Date: "2024-01-03", Open: 3, High: 4, Low: 3, Close: 4, Volume: 30, SplitFactor: 1},
	}
	if err := s.InsertPriceRecords(ctx, records); err != nil {
		t.Fatalf("InsertPriceRecords: %v", err)
	}

	a := NewParquetArchive(t.TempDir())
	n, err := a.ExportPrices(ctx, s, "AAPL", "2023-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("ExportPrices: %v", err)
	}
	if n != 3 {
		t.Errorf("exported %d rows, want 3", n)
	}

	// Rows split across year files.
	rows, err := a.ReadPrices("AAPL", []string{"2023", "2024"})
	if err != nil {
		t.Fatalf("ReadPrices: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("read %d rows, want 3", len(rows))
	}
	if rows[0].Date != "2023-12-29" || rows[2].Date != "2024-01-03" {
		t.Errorf("rows out of order: %+v", rows)
	}

	// Re-exporting merges instead of duplicating.
	if _, err := a.ExportPrices(ctx, s, "AAPL", "2023-01-01", "2024-12-31"); err != nil {
		t.Fatalf("second ExportPrices: %v", err)
	}
	rows, err = a.ReadPrices("AAPL", []string{"2023", "2024"})
	if err != nil {
		t.Fatalf("ReadPrices: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("read %d rows after re-export, want 3", len(rows))
	}

	tickers, err := a.ListTickers()
	if err != nil {
		t.Fatalf("ListTickers: %v", err)
	}
	if len(tickers) != 1 || tickers[0] != "AAPL" {
		t.Errorf("tickers = %v", tickers)
	}
}

func TestExportPricesEmpty(t *testing.T) {
	s := newTestStore(t)
	a := NewParquetArchive(t.TempDir())

	n, err := a.ExportPrices(context.Background(), s, "AAPL", "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("ExportPrices: %v", err)
	}
	if n != 0 {
		t.Errorf("exported %d rows from empty store, want 0", n)
	}

	tickers, err := a.ListTickers()
	if err != nil {
		t.Fatalf("ListTickers: %v", err)
	}
	if len(tickers) != 0 {
		t.Errorf("tickers = %v, want none", tickers)
	}
}

func TestExportSentiment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, d := range []domain.DailySentiment{
		{Date: "2024-06-12", Ticker: "AAPL", Positive: 3, Negative: 1, Label: domain.LabelPositive, Score: 0.5, UpdateDate: "2024-06-13"},
		{Date: "2024-06-13", Ticker: "MSFT", Positive: 1, Negative: 2, Label: domain.LabelNegative, Score: -1.0 / 3, UpdateDate: "2024-06-14"},
	} {
		day := d
		if err := s.UpsertDailySentiment(ctx, &day); err != nil {
			t.Fatalf("UpsertDailySentiment: %v", err)
		}
	}

	a := NewParquetArchive(t.TempDir())
	dates := []string{"2024-06-12", "2024-06-13", "2024-06-14"}

	// Only the date last written by AAPL is exported for AAPL.
	n, err := a.ExportSentiment(ctx, s, "AAPL", "2024-06-12", "2024-06-14", dates)
	if err != nil {
		t.Fatalf("ExportSentiment: %v", err)
	}
	if n != 1 {
		t.Errorf("exported %d rows, want 1", n)
	}

	rows, err := readParquetFile[SentimentRow](a.sentimentPath("AAPL"))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != "2024-06-12" || rows[0].Label != "POS" {
		t.Errorf("rows = %+v", rows)
	}
}
