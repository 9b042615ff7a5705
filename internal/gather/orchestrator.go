package gather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stocksent/internal/util"
)

// Stage identifies which part of the pipeline a progress event or error
// belongs to.
type Stage string

const (
	StagePrices    Stage = "prices"
	StageNews      Stage = "news"
	StageSentiment Stage = "sentiment"
)

// Progress is one pipeline progress event. Current counts completed-or-
// started steps out of Total (the two fetch stages plus one step per
// sentiment date) and increases monotonically over a run. Events are
// delivered with non-blocking sends: a slow or absent consumer never
// stalls the sync.
type Progress struct {
	Ticker  string
	Stage   Stage
	Date    string // set for per-date sentiment progress
	Current int
	Total   int
	Message string
}

// Result summarizes one ticker's sync run. Errors holds stage-tagged error
// strings; a stage failure does not abort the stages after it.
type Result struct {
	Ticker            string
	StockRecords      int
	NewsArticles      int
	SentimentAnalyses int
	DaysProcessed     int
	Errors            []string
}

// Orchestrator runs the three sync stages in fixed order (prices, news,
// sentiment) for each ticker.
type Orchestrator struct {
	prices    *PriceSync
	news      *NewsSync
	sentiment *SentimentSync
	log       *slog.Logger

	// progress is optional; nil means no events are emitted.
	progress chan<- Progress

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewOrchestrator wires the three sync units together. progress may be nil.
func NewOrchestrator(prices *PriceSync, news *NewsSync, sent *SentimentSync, progress chan<- Progress, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		prices:    prices,
		news:      news,
		sentiment: sent,
		log:       logger.With("component", "orchestrator"),
		progress:  progress,
		now:       time.Now,
	}
}

// SyncAll runs the full pipeline for one ticker over the trailing window of
// days calendar days ending today. Stage errors are collected into the
// result rather than aborting: a price-provider outage still lets news and
// sentiment for already-stored articles proceed. Context cancellation stops
// the run.
func (o *Orchestrator) SyncAll(ctx context.Context, ticker string, days int) Result {
	ticker = strings.ToUpper(ticker)
	end := o.now().Format(util.DateLayout)
	start := o.now().AddDate(0, 0, -days).Format(util.DateLayout)

	res := Result{Ticker: ticker}

	dates, datesErr := util.CalendarDays(start, end)
	total := 2 + len(dates)

	o.emit(Progress{Ticker: ticker, Stage: StagePrices, Current: 1, Total: total,
		Message: fmt.Sprintf("syncing prices %s..%s", start, end)})
	n, err := o.prices.Sync(ctx, ticker, start, end)
	res.StockRecords = n
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("prices: %v", err))
		o.log.Error("price sync failed", "ticker", ticker, "error", err)
	}
	if ctx.Err() != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("canceled: %v", ctx.Err()))
		return res
	}

	o.emit(Progress{Ticker: ticker, Stage: StageNews, Current: 2, Total: total,
		Message: fmt.Sprintf("syncing news %s..%s", start, end)})
	n, err = o.news.Sync(ctx, ticker, start, end)
	res.NewsArticles = n
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("news: %v", err))
		o.log.Error("news sync failed", "ticker", ticker, "error", err)
	}
	if ctx.Err() != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("canceled: %v", ctx.Err()))
		return res
	}

	// Sentiment runs per calendar day; one bad day does not stop the rest.
	if datesErr != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("sentiment: %v", datesErr))
		return res
	}
	for i, date := range dates {
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("canceled: %v", ctx.Err()))
			return res
		}
		o.emit(Progress{Ticker: ticker, Stage: StageSentiment, Date: date,
			Current: 3 + i, Total: total,
			Message: fmt.Sprintf("analyzing %s", date)})
		n, err := o.sentiment.SyncDate(ctx, ticker, date)
		res.SentimentAnalyses += n
		res.DaysProcessed++
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("sentiment %s: %v", date, err))
			o.log.Error("sentiment sync failed", "ticker", ticker, "date", date, "error", err)
		}
	}

	o.log.Info("sync complete", "ticker", ticker,
		"prices", res.StockRecords, "articles", res.NewsArticles,
		"analyzed", res.SentimentAnalyses, "errors", len(res.Errors))
	return res
}

// SyncTickers runs SyncAll for each ticker sequentially and returns one
// result per ticker, in input order.
func (o *Orchestrator) SyncTickers(ctx context.Context, tickers []string, days int) []Result {
	results := make([]Result, 0, len(tickers))
	for _, t := range tickers {
		if ctx.Err() != nil {
			break
		}
		results = append(results, o.SyncAll(ctx, t, days))
	}
	return results
}

// emit delivers a progress event without blocking.
func (o *Orchestrator) emit(p Progress) {
	if o.progress == nil {
		return
	}
	select {
	case o.progress <- p:
	default:
	}
}
