package store

import (
	"context"
	"database/sql"
	"fmt"

	"stocksent/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ PriceStore = (*SQLiteStore)(nil)
var _ SymbolStore = (*SQLiteStore)(nil)
var _ NewsStore = (*SQLiteStore)(nil)
var _ SentimentStore = (*SQLiteStore)(nil)
var _ PortfolioStore = (*SQLiteStore)(nil)

// schemaVersion is recorded in PRAGMA user_version for future migrations.
const schemaVersion = 1

var schema = []string{
	`CREATE TABLE IF NOT EXISTS price_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hash INTEGER NOT NULL DEFAULT 0,
		ticker TEXT NOT NULL,
		date TEXT NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		adj_open REAL NOT NULL DEFAULT 0,
		adj_high REAL NOT NULL DEFAULT 0,
		adj_low REAL NOT NULL DEFAULT 0,
		adj_close REAL NOT NULL DEFAULT 0,
		adj_volume INTEGER NOT NULL DEFAULT 0,
		div_cash REAL NOT NULL DEFAULT 0,
		split_factor REAL NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS symbol_metadata (
		ticker TEXT PRIMARY KEY NOT NULL,
		name TEXT,
		exchange_code TEXT,
		start_date TEXT,
		end_date TEXT,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS news_articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		date TEXT NOT NULL,
		title TEXT,
		publisher TEXT,
		article_url TEXT,
		amp_url TEXT,
		description TEXT,
		article_tickers TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS article_sentiment (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hash TEXT NOT NULL,
		ticker TEXT NOT NULL,
		date TEXT NOT NULL,
		positive INTEGER NOT NULL,
		negative INTEGER NOT NULL,
		label TEXT NOT NULL,
		score REAL NOT NULL,
		body TEXT,
		next_day REAL NOT NULL DEFAULT 0,
		two_weeks REAL NOT NULL DEFAULT 0,
		one_month REAL NOT NULL DEFAULT 0
	)`,
	// Keyed by date alone: one aggregate row per calendar date. Tickers
	// synced over the same window overwrite each other; ticker records the
	// last writer.
	`CREATE TABLE IF NOT EXISTS daily_sentiment (
		date TEXT PRIMARY KEY NOT NULL,
		ticker TEXT NOT NULL,
		positive INTEGER NOT NULL,
		negative INTEGER NOT NULL,
		label TEXT NOT NULL,
		score REAL NOT NULL,
		update_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS portfolio (
		ticker TEXT PRIMARY KEY NOT NULL,
		name TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_price_ticker_date ON price_records(ticker, date)`,
	`CREATE INDEX IF NOT EXISTS idx_news_ticker_date ON news_articles(ticker, date)`,
	`CREATE INDEX IF NOT EXISTS idx_news_url ON news_articles(article_url)`,
	`CREATE INDEX IF NOT EXISTS idx_sentiment_hash ON article_sentiment(hash)`,
	`CREATE INDEX IF NOT EXISTS idx_sentiment_ticker_date ON article_sentiment(ticker, date)`,
}

// SQLiteStore implements every repository interface backed by a SQLite
// database. The handle is explicit: construct one and inject it wherever a
// repository is needed.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies
// the schema, and returns a ready-to-use store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// PriceStore implementation
// ---------------------------------------------------------------------------

// InsertPriceRecords writes all records in a single transaction so a
// mid-batch failure leaves the store in its pre-batch state.
func (s *SQLiteStore) InsertPriceRecords(ctx context.Context, records []domain.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning price insert tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO price_records
		(hash, ticker, date, open, high, low, close, volume,
		 adj_open, adj_high, adj_low, adj_close, adj_volume, div_cash, split_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing price insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Hash, r.Ticker, r.Date, r.Open, r.High, r.Low, r.Close, r.Volume,
			r.AdjOpen, r.AdjHigh, r.AdjLow, r.AdjClose, r.AdjVolume,
			r.DivCash, r.SplitFactor); err != nil {
			return fmt.Errorf("inserting price row %s/%s: %w", r.Ticker, r.Date, err)
		}
	}

	return tx.Commit()
}

// PricesInRange returns price rows for ticker in [start, end], oldest first.
func (s *SQLiteStore) PricesInRange(ctx context.Context, ticker, start, end string) ([]domain.PriceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, hash, ticker, date, open, high, low, close, volume,
		adj_open, adj_high, adj_low, adj_close, adj_volume, div_cash, split_factor
		FROM price_records
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying prices: %w", err)
	}
	defer rows.Close()

	var out []domain.PriceRecord
	for rows.Next() {
		var r domain.PriceRecord
		if err := rows.Scan(&r.ID, &r.Hash, &r.Ticker, &r.Date,
			&r.Open, &r.High, &r.Low, &r.Close, &r.Volume,
			&r.AdjOpen, &r.AdjHigh, &r.AdjLow, &r.AdjClose, &r.AdjVolume,
			&r.DivCash, &r.SplitFactor); err != nil {
			return nil, fmt.Errorf("scanning price row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PriceDatesInRange returns the distinct stored dates for ticker in
// [start, end] as a set.
func (s *SQLiteStore) PriceDatesInRange(ctx context.Context, ticker, start, end string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT date FROM price_records
		WHERE ticker = ? AND date >= ? AND date <= ?`, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying price dates: %w", err)
	}
	defer rows.Close()

	dates := make(map[string]bool)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning price date: %w", err)
		}
		dates[d] = true
	}
	return dates, rows.Err()
}

// ---------------------------------------------------------------------------
// SymbolStore implementation
// ---------------------------------------------------------------------------

func (s *SQLiteStore) SymbolExists(ctx context.Context, ticker string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM symbol_metadata WHERE ticker = ?`, ticker).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking symbol existence: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) InsertSymbol(ctx context.Context, sym *domain.SymbolMetadata) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO symbol_metadata
		(ticker, name, exchange_code, start_date, end_date, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sym.Ticker, sym.Name, sym.ExchangeCode, sym.StartDate, sym.EndDate, sym.Description)
	if err != nil {
		return fmt.Errorf("inserting symbol %s: %w", sym.Ticker, err)
	}
	return nil
}

func (s *SQLiteStore) GetSymbol(ctx context.Context, ticker string) (*domain.SymbolMetadata, error) {
	sym := &domain.SymbolMetadata{}
	err := s.db.QueryRowContext(ctx, `SELECT ticker, name, exchange_code, start_date, end_date, description
		FROM symbol_metadata WHERE ticker = ?`, ticker).
		Scan(&sym.Ticker, &sym.Name, &sym.ExchangeCode, &sym.StartDate, &sym.EndDate, &sym.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying symbol %s: %w", ticker, err)
	}
	return sym, nil
}

// ---------------------------------------------------------------------------
// NewsStore implementation
// ---------------------------------------------------------------------------

func (s *SQLiteStore) ArticleExistsByURL(ctx context.Context, articleURL string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM news_articles WHERE article_url = ?`, articleURL).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking article existence: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) InsertArticle(ctx context.Context, a *domain.NewsArticle) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO news_articles
		(ticker, date, title, publisher, article_url, amp_url, description, article_tickers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Ticker, a.Date, a.Title, a.Publisher, a.ArticleURL, a.AmpURL, a.Description, a.ArticleTickers)
	if err != nil {
		return fmt.Errorf("inserting article %s: %w", a.ArticleURL, err)
	}
	return nil
}

func (s *SQLiteStore) ArticlesByTickerAndDate(ctx context.Context, ticker, date string) ([]domain.NewsArticle, error) {
	return s.ArticlesInRange(ctx, ticker, date, date)
}

func (s *SQLiteStore) ArticlesInRange(ctx context.Context, ticker, start, end string) ([]domain.NewsArticle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, ticker, date, title, publisher, article_url, amp_url, description, article_tickers
		FROM news_articles
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, id ASC`, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var out []domain.NewsArticle
	for rows.Next() {
		var a domain.NewsArticle
		if err := rows.Scan(&a.ID, &a.Ticker, &a.Date, &a.Title, &a.Publisher,
			&a.ArticleURL, &a.AmpURL, &a.Description, &a.ArticleTickers); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// SentimentStore implementation
// ---------------------------------------------------------------------------

func (s *SQLiteStore) SentimentExistsByHash(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM article_sentiment WHERE hash = ?`, hash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking sentiment existence: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) InsertArticleSentiment(ctx context.Context, a *domain.ArticleSentiment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO article_sentiment
		(hash, ticker, date, positive, negative, label, score, body, next_day, two_weeks, one_month)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Hash, a.Ticker, a.Date, a.Positive, a.Negative, string(a.Label), a.Score,
		a.Body, a.NextDay, a.TwoWeeks, a.OneMonth)
	if err != nil {
		return fmt.Errorf("inserting article sentiment %s: %w", a.Hash, err)
	}
	return nil
}

func (s *SQLiteStore) ArticleSentimentsByDate(ctx context.Context, ticker, date string) ([]domain.ArticleSentiment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, hash, ticker, date, positive, negative, label, score, body, next_day, two_weeks, one_month
		FROM article_sentiment
		WHERE ticker = ? AND date = ?
		ORDER BY id ASC`, ticker, date)
	if err != nil {
		return nil, fmt.Errorf("querying article sentiments: %w", err)
	}
	defer rows.Close()

	var out []domain.ArticleSentiment
	for rows.Next() {
		var a domain.ArticleSentiment
		var label string
		if err := rows.Scan(&a.ID, &a.Hash, &a.Ticker, &a.Date, &a.Positive, &a.Negative,
			&label, &a.Score, &a.Body, &a.NextDay, &a.TwoWeeks, &a.OneMonth); err != nil {
			return nil, fmt.Errorf("scanning sentiment row: %w", err)
		}
		a.Label = domain.Label(label)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertDailySentiment(ctx context.Context, d *domain.DailySentiment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO daily_sentiment
		(date, ticker, positive, negative, label, score, update_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			ticker = excluded.ticker,
			positive = excluded.positive,
			negative = excluded.negative,
			label = excluded.label,
			score = excluded.score,
			update_date = excluded.update_date`,
		d.Date, d.Ticker, d.Positive, d.Negative, string(d.Label), d.Score, d.UpdateDate)
	if err != nil {
		return fmt.Errorf("upserting daily sentiment %s: %w", d.Date, err)
	}
	return nil
}

func (s *SQLiteStore) DailySentimentByDate(ctx context.Context, date string) (*domain.DailySentiment, error) {
	d := &domain.DailySentiment{}
	var label string
	err := s.db.QueryRowContext(ctx, `SELECT date, ticker, positive, negative, label, score, update_date
		FROM daily_sentiment WHERE date = ?`, date).
		Scan(&d.Date, &d.Ticker, &d.Positive, &d.Negative, &label, &d.Score, &d.UpdateDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying daily sentiment %s: %w", date, err)
	}
	d.Label = domain.Label(label)
	return d, nil
}

// ---------------------------------------------------------------------------
// PortfolioStore implementation
// ---------------------------------------------------------------------------

func (s *SQLiteStore) UpsertPortfolioEntry(ctx context.Context, e *domain.PortfolioEntry) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO portfolio (ticker, name) VALUES (?, ?)
		ON CONFLICT(ticker) DO UPDATE SET name = excluded.name`,
		e.Ticker, e.Name)
	if err != nil {
		return fmt.Errorf("upserting portfolio entry %s: %w", e.Ticker, err)
	}
	return nil
}

func (s *SQLiteStore) ListPortfolio(ctx context.Context) ([]domain.PortfolioEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker, name FROM portfolio ORDER BY ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying portfolio: %w", err)
	}
	defer rows.Close()

	var out []domain.PortfolioEntry
	for rows.Next() {
		var e domain.PortfolioEntry
		if err := rows.Scan(&e.Ticker, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning portfolio row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) RemovePortfolioEntry(ctx context.Context, ticker string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM portfolio WHERE ticker = ?`, ticker)
	if err != nil {
		return fmt.Errorf("removing portfolio entry %s: %w", ticker, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Ticker removal
// ---------------------------------------------------------------------------

// DeleteTicker removes every row belonging to ticker across all tables, in
// one transaction. Daily aggregate rows last written by the ticker are
// removed as well since their inputs are gone.
func (s *SQLiteStore) DeleteTicker(ctx context.Context, ticker string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete tx: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM price_records WHERE ticker = ?`,
		`DELETE FROM symbol_metadata WHERE ticker = ?`,
		`DELETE FROM news_articles WHERE ticker = ?`,
		`DELETE FROM article_sentiment WHERE ticker = ?`,
		`DELETE FROM daily_sentiment WHERE ticker = ?`,
		`DELETE FROM portfolio WHERE ticker = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, ticker); err != nil {
			return fmt.Errorf("deleting ticker %s: %w", ticker, err)
		}
	}

	return tx.Commit()
}
