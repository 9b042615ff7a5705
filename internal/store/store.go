// Package store persists pipeline entities to a local SQLite database:
// price records, symbol metadata, news articles, per-article and daily
// sentiment, and the portfolio watchlist.
package store

import (
	"context"

	"stocksent/internal/domain"
)

// PriceStore persists and queries daily price records.
type PriceStore interface {
	// InsertPriceRecords writes a batch of price rows in one transaction.
	InsertPriceRecords(ctx context.Context, records []domain.PriceRecord) error

	// PricesInRange returns price rows for ticker with date in [start, end].
	PricesInRange(ctx context.Context, ticker, start, end string) ([]domain.PriceRecord, error)

	// PriceDatesInRange returns the set of distinct stored dates for ticker
	// in [start, end]. The price sync compares it against the expected
	// trading-day set to decide whether a fetch can be skipped.
	PriceDatesInRange(ctx context.Context, ticker, start, end string) (map[string]bool, error)
}

// SymbolStore persists company reference data, written once per ticker.
type SymbolStore interface {
	SymbolExists(ctx context.Context, ticker string) (bool, error)
	InsertSymbol(ctx context.Context, sym *domain.SymbolMetadata) error
	GetSymbol(ctx context.Context, ticker string) (*domain.SymbolMetadata, error)
}

// NewsStore persists news articles, deduplicated by canonical URL.
type NewsStore interface {
	ArticleExistsByURL(ctx context.Context, articleURL string) (bool, error)
	InsertArticle(ctx context.Context, article *domain.NewsArticle) error
	ArticlesByTickerAndDate(ctx context.Context, ticker, date string) ([]domain.NewsArticle, error)
	ArticlesInRange(ctx context.Context, ticker, start, end string) ([]domain.NewsArticle, error)
}

// SentimentStore persists per-article scores and the daily aggregate.
type SentimentStore interface {
	// SentimentExistsByHash reports whether the article identified by the
	// URL hash was already analyzed.
	SentimentExistsByHash(ctx context.Context, hash string) (bool, error)
	InsertArticleSentiment(ctx context.Context, s *domain.ArticleSentiment) error
	ArticleSentimentsByDate(ctx context.Context, ticker, date string) ([]domain.ArticleSentiment, error)

	// UpsertDailySentiment inserts or replaces the single aggregate row for
	// a calendar date.
	UpsertDailySentiment(ctx context.Context, d *domain.DailySentiment) error
	DailySentimentByDate(ctx context.Context, date string) (*domain.DailySentiment, error)
}

// PortfolioStore maintains the user watchlist. The sync pipeline only ever
// reads it.
type PortfolioStore interface {
	UpsertPortfolioEntry(ctx context.Context, entry *domain.PortfolioEntry) error
	ListPortfolio(ctx context.Context) ([]domain.PortfolioEntry, error)
	RemovePortfolioEntry(ctx context.Context, ticker string) error
}
