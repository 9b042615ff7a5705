package gather

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"stocksent/internal/domain"
	"stocksent/internal/sentiment"
	"stocksent/internal/store"
	"stocksent/internal/util"
	"stocksent/internal/vocab"
)

// minDescriptionLen is the shortest article description worth scoring;
// anything shorter carries no usable signal.
const minDescriptionLen = 10

// SentimentSync scores stored articles against the vocabulary and maintains
// the per-date aggregate. Articles are identified by an MD5 of their URL so
// an article is analyzed exactly once across runs.
type SentimentSync struct {
	news       store.NewsStore
	sentiments store.SentimentStore
	vocab      *vocab.Vocabulary
	log        *slog.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewSentimentSync wires a sentiment sync against a store and a loaded
// vocabulary.
func NewSentimentSync(news store.NewsStore, sentiments store.SentimentStore, v *vocab.Vocabulary, logger *slog.Logger) *SentimentSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &SentimentSync{
		news:       news,
		sentiments: sentiments,
		vocab:      v,
		log:        logger.With("sync", "sentiment"),
		now:        time.Now,
	}
}

// SyncDate analyzes unanalyzed articles for ticker on one date. When at
// least one article was newly analyzed, the daily aggregate is recomputed
// from every stored article sentiment for that (ticker, date); otherwise
// the existing aggregate row is left untouched. Returns the number of newly
// analyzed articles.
func (s *SentimentSync) SyncDate(ctx context.Context, ticker, date string) (int, error) {
	ticker = strings.ToUpper(ticker)

	articles, err := s.news.ArticlesByTickerAndDate(ctx, ticker, date)
	if err != nil {
		return 0, err
	}

	analyzed := 0
	for _, a := range articles {
		if len(a.Description) < minDescriptionLen {
			continue
		}
		hash := ArticleHash(a.ArticleURL)
		exists, err := s.sentiments.SentimentExistsByHash(ctx, hash)
		if err != nil {
			return analyzed, err
		}
		if exists {
			continue
		}

		res := sentiment.Analyze(s.vocab, a.Description)
		row := &domain.ArticleSentiment{
			Hash:     hash,
			Ticker:   ticker,
			Date:     date,
			Positive: res.Counts.Positive,
			Negative: res.Counts.Negative,
			Label:    res.Label,
			Score:    res.Score,
			Body:     a.Description,
		}
		if err := s.sentiments.InsertArticleSentiment(ctx, row); err != nil {
			return analyzed, err
		}
		analyzed++
	}

	// The aggregate is only rebuilt when this run analyzed something new.
	// A no-op re-run must leave the existing daily row, including its
	// update stamp, exactly as the last producing run wrote it.
	if analyzed > 0 {
		if err := s.aggregate(ctx, ticker, date); err != nil {
			return analyzed, err
		}
		s.log.Info("analyzed articles", "ticker", ticker, "date", date, "count", analyzed)
	}
	return analyzed, nil
}

// aggregate rebuilds the daily sentiment row from every article sentiment
// stored for (ticker, date). Days with no analyzed articles leave the
// aggregate untouched.
func (s *SentimentSync) aggregate(ctx context.Context, ticker, date string) error {
	rows, err := s.sentiments.ArticleSentimentsByDate(ctx, ticker, date)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	var positive, negative int
	for _, r := range rows {
		positive += r.Positive
		negative += r.Negative
	}

	return s.sentiments.UpsertDailySentiment(ctx, &domain.DailySentiment{
		Date:       date,
		Ticker:     ticker,
		Positive:   positive,
		Negative:   negative,
		Label:      sentiment.Label(positive, negative),
		Score:      sentiment.Score(positive, negative),
		UpdateDate: s.now().Format(util.DateLayout),
	})
}

// ArticleHash is the stable identity of an article: the hex MD5 of its
// canonical URL.
func ArticleHash(articleURL string) string {
	sum := md5.Sum([]byte(articleURL))
	return hex.EncodeToString(sum[:])
}
