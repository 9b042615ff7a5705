// Package domain defines the core entity types shared across the sync
// pipeline: price records, symbol metadata, news articles, per-article and
// daily sentiment, and portfolio entries.
package domain

// Label classifies the sentiment of a piece of text or a whole day.
type Label string

const (
	LabelPositive Label = "POS"
	LabelNegative Label = "NEG"
	LabelNeutral  Label = "NEUT"
)

// WordCounts holds the bag-of-words tallies for one text.
type WordCounts struct {
	Positive int
	Negative int
}

// PriceRecord is one daily OHLCV bar for a ticker. The (Ticker, Date) pair
// is unique per row; Hash is a row discriminator only, never a dedup key.
type PriceRecord struct {
	ID          int64
	Hash        int64
	Ticker      string
	Date        string // YYYY-MM-DD
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      int64
	AdjOpen     float64
	AdjHigh     float64
	AdjLow      float64
	AdjClose    float64
	AdjVolume   int64
	DivCash     float64
	SplitFactor float64
}

// SymbolMetadata is company reference data for a ticker, fetched once on
// first price sync and immutable afterwards.
type SymbolMetadata struct {
	Ticker       string
	Name         string
	ExchangeCode string
	StartDate    string
	EndDate      string
	Description  string
}

// NewsArticle is one provider article stored locally. Deduplication is by
// canonical ArticleURL via an existence check before insert.
type NewsArticle struct {
	ID             int64
	Ticker         string
	Date           string // YYYY-MM-DD, derived from the published timestamp
	Title          string
	Publisher      string
	ArticleURL     string
	AmpURL         string
	Description    string
	ArticleTickers string // comma-joined ticker list for multi-ticker articles
}

// ArticleSentiment is the scored result for a single article. Hash is the
// MD5 of the article URL and is the pipeline's primary dedup guard: a row
// existing for a hash means the article was already analyzed.
//
// NextDay, TwoWeeks, and OneMonth are forward-return placeholders filled in
// by a downstream stage outside this pipeline.
type ArticleSentiment struct {
	ID       int64
	Hash     string
	Ticker   string
	Date     string
	Positive int
	Negative int
	Label    Label
	Score    float64
	Body     string
	NextDay  float64
	TwoWeeks float64
	OneMonth float64
}

// DailySentiment is the per-calendar-day aggregate of all article counts.
// It is keyed by Date alone; two tickers synced over the same day overwrite
// each other's row. Ticker records which sync last wrote it.
type DailySentiment struct {
	Date       string
	Ticker     string
	Positive   int
	Negative   int
	Label      Label
	Score      float64
	UpdateDate string
}

// PortfolioEntry is a user-curated watchlist row. The sync pipeline reads
// the watchlist but never writes it.
type PortfolioEntry struct {
	Ticker string
	Name   string
}
