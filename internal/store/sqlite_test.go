package store

import (
	"context"
	"path/filepath"
	"testing"

	"stocksent/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore(%q): %v", dbPath, err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestSchemaVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "version.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}

	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		t.Fatalf("reading user_version: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("user_version = %d, want %d", version, schemaVersion)
	}
	s.Close()

	// Re-opening the same file must be a no-op migration.
	s2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	s2.Close()
}

func TestPriceRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []domain.PriceRecord{
		{Ticker: "AAPL", Date: "2024-06-10", Open: 195.1, High: 197.3, Low: 194.1, Close: 196.5, Volume: 1000, SplitFactor: 1},
		{Ticker: "AAPL", Date: "2024-06-11", Open: 196.5, High: 198.0, Low: 195.9, Close: 197.8, Volume: 1200, SplitFactor: 1},
		{Ticker: "MSFT", Date: "2024-06-10", Open: 420.0, High: 425.0, Low: 419.0, Close: 424.2, Volume: 800, SplitFactor: 1},
	}
	if err := s.InsertPriceRecords(ctx, records); err != nil {
		t.Fatalf("InsertPriceRecords: %v", err)
	}

	got, err := s.PricesInRange(ctx, "AAPL", "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("PricesInRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Date != "2024-06-10" || got[1].Date != "2024-06-11" {
		t.Errorf("rows out of order: %s, %s", got[0].Date, got[1].Date)
	}
	if got[0].Close != 196.5 {
		t.Errorf("Close = %v, want 196.5", got[0].Close)
	}

	dates, err := s.PriceDatesInRange(ctx, "AAPL", "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("PriceDatesInRange: %v", err)
	}
	if len(dates) != 2 || !dates["2024-06-10"] || !dates["2024-06-11"] {
		t.Errorf("dates = %v", dates)
	}

	// Other tickers must not leak into the range query.
	other, err := s.PricesInRange(ctx, "MSFT", "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("PricesInRange(MSFT): %v", err)
	}
	if len(other) != 1 {
		t.Errorf("got %d MSFT rows, want 1", len(other))
	}
}

func TestInsertPriceRecordsEmptyBatch(t *testing.T) {
	s := newTestStore(t)
	if err := s.InsertPriceRecords(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
}

func TestSymbolMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	exists, err := s.SymbolExists(ctx, "AAPL")
	if err != nil {
		t.Fatalf("SymbolExists: %v", err)
	}
	if exists {
		t.Error("SymbolExists = true before insert")
	}

	sym := &domain.SymbolMetadata{
		Ticker: "AAPL", Name: "Apple Inc.", ExchangeCode: "NASDAQ",
		StartDate: "1980-12-12", EndDate: "2024-06-14", Description: "Consumer electronics.",
	}
	if err := s.InsertSymbol(ctx, sym); err != nil {
		t.Fatalf("InsertSymbol: %v", err)
	}

	exists, err = s.SymbolExists(ctx, "AAPL")
	if err != nil {
		t.Fatalf("SymbolExists: %v", err)
	}
	if !exists {
		t.Error("SymbolExists = false after insert")
	}

	got, err := s.GetSymbol(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetSymbol: %v", err)
	}
	if got == nil || got.Name != "Apple Inc." {
		t.Errorf("GetSymbol = %+v", got)
	}

	missing, err := s.GetSymbol(ctx, "NOPE")
	if err != nil {
		t.Fatalf("GetSymbol(NOPE): %v", err)
	}
	if missing != nil {
		t.Errorf("GetSymbol for missing ticker = %+v, want nil", missing)
	}
}

func TestNewsArticles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	url := "https://example.com/apple-beats"
	exists, err := s.ArticleExistsByURL(ctx, url)
	if err != nil {
		t.Fatalf("ArticleExistsByURL: %v", err)
	}
	if exists {
		t.Error("article exists before insert")
	}

	a := &domain.NewsArticle{
		Ticker: "AAPL", Date: "2024-06-12", Title: "Apple beats estimates",
		Publisher: "Example Wire", ArticleURL: url,
		Description: "A wonderful quarter.", ArticleTickers: "AAPL,MSFT",
	}
	if err := s.InsertArticle(ctx, a); err != nil {
		t.Fatalf("InsertArticle: %v", err)
	}

	exists, err = s.ArticleExistsByURL(ctx, url)
	if err != nil {
		t.Fatalf("ArticleExistsByURL: %v", err)
	}
	if !exists {
		t.Error("article missing after insert")
	}

	byDate, err := s.ArticlesByTickerAndDate(ctx, "AAPL", "2024-06-12")
	if err != nil {
		t.Fatalf("ArticlesByTickerAndDate: %v", err)
	}
	if len(byDate) != 1 || byDate[0].Title != "Apple beats estimates" {
		t.Errorf("byDate = %+v", byDate)
	}

	empty, err := s.ArticlesByTickerAndDate(ctx, "AAPL", "2024-06-13")
	if err != nil {
		t.Fatalf("ArticlesByTickerAndDate: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no articles on 2024-06-13, got %d", len(empty))
	}
}

func TestArticleSentimentAndDailyUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	exists, err := s.SentimentExistsByHash(ctx, "abc123")
	if err != nil {
		t.Fatalf("SentimentExistsByHash: %v", err)
	}
	if exists {
		t.Error("sentiment exists before insert")
	}

	as := &domain.ArticleSentiment{
		Hash: "abc123", Ticker: "AAPL", Date: "2024-06-12",
		Positive: 3, Negative: 2, Label: domain.LabelPositive, Score: 0.2,
		Body: "wonderful wonderful wonderful terrible terrible",
	}
	if err := s.InsertArticleSentiment(ctx, as); err != nil {
		t.Fatalf("InsertArticleSentiment: %v", err)
	}

	exists, err = s.SentimentExistsByHash(ctx, "abc123")
	if err != nil {
		t.Fatalf("SentimentExistsByHash: %v", err)
	}
	if !exists {
		t.Error("sentiment missing after insert")
	}

	rows, err := s.ArticleSentimentsByDate(ctx, "AAPL", "2024-06-12")
	if err != nil {
		t.Fatalf("ArticleSentimentsByDate: %v", err)
	}
	if len(rows) != 1 || rows[0].Label != domain.LabelPositive {
		t.Errorf("rows = %+v", rows)
	}

	// Upsert replaces the single row per date.
	d1 := &domain.DailySentiment{
		Date: "2024-06-12", Ticker: "AAPL", Positive: 3, Negative: 2,
		Label: domain.LabelPositive, Score: 0.2, UpdateDate: "2024-06-13",
	}
	if err := s.UpsertDailySentiment(ctx, d1); err != nil {
		t.Fatalf("UpsertDailySentiment: %v", err)
	}
	d2 := &domain.DailySentiment{
		Date: "2024-06-12", Ticker: "AAPL", Positive: 5, Negative: 5,
		Label: domain.LabelNeutral, Score: 0, UpdateDate: "2024-06-14",
	}
	if err := s.UpsertDailySentiment(ctx, d2); err != nil {
		t.Fatalf("UpsertDailySentiment (replace): %v", err)
	}

	got, err := s.DailySentimentByDate(ctx, "2024-06-12")
	if err != nil {
		t.Fatalf("DailySentimentByDate: %v", err)
	}
	if got == nil || got.Positive != 5 || got.Label != domain.LabelNeutral || got.UpdateDate != "2024-06-14" {
		t.Errorf("daily = %+v", got)
	}

	missing, err := s.DailySentimentByDate(ctx, "2024-06-13")
	if err != nil {
		t.Fatalf("DailySentimentByDate(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("missing date = %+v, want nil", missing)
	}
}

func TestPortfolio(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, e := range []domain.PortfolioEntry{
		{Ticker: "MSFT", Name: "Microsoft"},
		{Ticker: "AAPL", Name: "Apple"},
	} {
		entry := e
		if err := s.UpsertPortfolioEntry(ctx, &entry); err != nil {
			t.Fatalf("UpsertPortfolioEntry: %v", err)
		}
	}

	list, err := s.ListPortfolio(ctx)
	if err != nil {
		t.Fatalf("ListPortfolio: %v", err)
	}
	if len(list) != 2 || list[0].Ticker != "AAPL" || list[1].Ticker != "MSFT" {
		t.Errorf("list = %+v, want sorted [AAPL MSFT]", list)
	}

	// Upsert on an existing ticker updates instead of duplicating.
	if err := s.UpsertPortfolioEntry(ctx, &domain.PortfolioEntry{Ticker: "AAPL", Name: "Apple Inc."}); err != nil {
		t.Fatalf("UpsertPortfolioEntry (update): %v", err)
	}
	list, err = s.ListPortfolio(ctx)
	if err != nil {
		t.Fatalf("ListPortfolio: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Apple Inc." {
		t.Errorf("list after update = %+v", list)
	}

	if err := s.RemovePortfolioEntry(ctx, "MSFT"); err != nil {
		t.Fatalf("RemovePortfolioEntry: %v", err)
	}
	list, err = s.ListPortfolio(ctx)
	if err != nil {
		t.Fatalf("ListPortfolio: %v", err)
	}
	if len(list) != 1 || list[0].Ticker != "AAPL" {
		t.Errorf("list after remove = %+v", list)
	}
}

func TestDeleteTicker(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertPriceRecords(ctx, []domain.PriceRecord{
		{Ticker: "AAPL", Date: "2024-06-10", Open: 1, High: 1, Low: 1, Close: 1, Volume: 1, SplitFactor: 1},
	}); err != nil {
		t.Fatalf("InsertPriceRecords: %v", err)
	}
	if err := s.InsertArticle(ctx, &domain.NewsArticle{
		Ticker: "AAPL", Date: "2024-06-10", ArticleURL: "https://example.com/x",
	}); err != nil {
		t.Fatalf("InsertArticle: %v", err)
	}
	if err := s.InsertSymbol(ctx, &domain.SymbolMetadata{Ticker: "AAPL"}); err != nil {
		t.Fatalf("InsertSymbol: %v", err)
	}

	if err := s.DeleteTicker(ctx, "AAPL"); err != nil {
		t.Fatalf("DeleteTicker: %v", err)
	}

	prices, err := s.PricesInRange(ctx, "AAPL", "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("PricesInRange: %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("prices remain after delete: %d", len(prices))
	}
	exists, err := s.ArticleExistsByURL(ctx, "https://example.com/x")
	if err != nil {
		t.Fatalf("ArticleExistsByURL: %v", err)
	}
	if exists {
		t.Error("article remains after delete")
	}
	symExists, err := s.SymbolExists(ctx, "AAPL")
	if err != nil {
		t.Fatalf("SymbolExists: %v", err)
	}
	if symExists {
		t.Error("symbol remains after delete")
	}
}
