package gather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stocksent/internal/domain"
	"stocksent/internal/provider"
	"stocksent/internal/store"
)

// NewsAPI is the slice of the news provider the news sync depends on.
type NewsAPI interface {
	FetchNews(ctx context.Context, ticker, startDate, endDate string) ([]provider.NewsItem, error)
}

// NewsSync ingests news coverage, deduplicating on the canonical article
// URL so repeated runs over overlapping windows store each article once.
type NewsSync struct {
	api  NewsAPI
	news store.NewsStore
	log  *slog.Logger
}

// NewNewsSync wires a news sync against an API client and a store.
func NewNewsSync(api NewsAPI, news store.NewsStore, logger *slog.Logger) *NewsSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsSync{api: api, news: news, log: logger.With("sync", "news")}
}

// Sync fetches articles for ticker published in [start, end] and stores the
// ones not seen before. Returns the number of newly stored articles.
func (n *NewsSync) Sync(ctx context.Context, ticker, start, end string) (int, error) {
	items, err := n.api.FetchNews(ctx, ticker, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetching news for %s: %w", ticker, err)
	}

	inserted := 0
	for _, item := range items {
		if item.ArticleURL == "" {
			continue
		}
		exists, err := n.news.ArticleExistsByURL(ctx, item.ArticleURL)
		if err != nil {
			return inserted, err
		}
		if exists {
			continue
		}

		article := &domain.NewsArticle{
			Ticker:         strings.ToUpper(ticker),
			Date:           truncateDate(item.PublishedUTC),
			Title:          item.Title,
			Publisher:      item.Publisher.Name,
			ArticleURL:     item.ArticleURL,
			AmpURL:         item.AmpURL,
			Description:    item.Description,
			ArticleTickers: strings.Join(item.Tickers, ","),
		}
		if err := n.news.InsertArticle(ctx, article); err != nil {
			return inserted, fmt.Errorf("storing article %s: %w", item.ArticleURL, err)
		}
		inserted++
	}

	n.log.Info("news sync complete", "ticker", ticker,
		"fetched", len(items), "stored", inserted)
	return inserted, nil
}
