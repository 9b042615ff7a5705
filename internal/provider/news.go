package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"stocksent/internal/util"
)

// maxNewsPages bounds a single fetch against runaway pagination: even with
// an endlessly-present next_url the loop issues at most this many requests.
const maxNewsPages = 10

// defaultNewsPageLimit is the per-page result limit requested from the
// provider.
const defaultNewsPageLimit = 100

// NewsItem is one provider-native article.
type NewsItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	PublishedUTC string   `json:"published_utc"`
	ArticleURL   string   `json:"article_url"`
	Tickers      []string `json:"tickers"`
	Publisher    struct {
		Name string `json:"name"`
	} `json:"publisher"`
	Description string `json:"description"`
	AmpURL      string `json:"amp_url"`
}

type newsResponse struct {
	Status  string     `json:"status"`
	Results []NewsItem `json:"results"`
	Count   int        `json:"count"`
	NextURL string     `json:"next_url"`
}

// NewsClient fetches news coverage from the news provider, following the
// provider's continuation cursor across pages.
type NewsClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *util.RateLimiter
	log     *slog.Logger
}

// NewsClientOptions configures a NewsClient. PageRatePerMin throttles
// paginated requests (default 60, i.e. one second between pages);
// RetryWaitBase overrides the backoff base delay for tests.
type NewsClientOptions struct {
	BaseURL        string
	APIKey         string
	PageRatePerMin int
	RetryWaitBase  time.Duration
	Logger         *slog.Logger
}

// NewNewsClient creates a NewsClient with the shared retry policy and a
// token-bucket page limiter.
func NewNewsClient(opts NewsClientOptions) *NewsClient {
	rate := opts.PageRatePerMin
	if rate <= 0 {
		rate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsClient{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		http:    newRetryClient(opts.RetryWaitBase),
		limiter: util.NewRateLimiter(rate),
		log:     logger.With("client", "news"),
	}
}

// FetchNews returns all articles for ticker published in
// [startDate, endDate], following next_url pagination up to maxNewsPages
// pages. A 404 means the provider has no coverage and yields an empty,
// error-free result; 401/403 and 429 surface as typed errors.
func (c *NewsClient) FetchNews(ctx context.Context, ticker, startDate, endDate string) ([]NewsItem, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	if startDate != "" {
		q.Set("published_utc.gte", startDate)
	}
	if endDate != "" {
		q.Set("published_utc.lte", endDate)
	}
	q.Set("limit", fmt.Sprint(defaultNewsPageLimit))
	q.Set("apiKey", c.apiKey)

	next := fmt.Sprintf("%s/news?%s", c.baseURL, q.Encode())

	var all []NewsItem
	for page := 1; page <= maxNewsPages; page++ {
		// Pace paginated requests against the provider's per-minute quota.
		if err := c.limiter.Wait(ctx); err != nil {
			return all, err
		}

		c.log.Debug("fetching news page", "ticker", ticker, "page", page)

		body, status, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}

		switch {
		case status == http.StatusOK:
			// Fall through to decode.
		case status == http.StatusNotFound:
			// Absence of news is a normal outcome, not a failure.
			return all, nil
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return nil, &APIError{Provider: "news", StatusCode: status,
				Message: "invalid API key"}
		case status == http.StatusTooManyRequests:
			return nil, &APIError{Provider: "news", StatusCode: status,
				Message: "rate limit exceeded, try again later"}
		default:
			return nil, &APIError{Provider: "news", StatusCode: status,
				Message: fmt.Sprintf("unexpected status fetching news for %s", ticker)}
		}

		var nr newsResponse
		if err := json.Unmarshal(body, &nr); err != nil {
			return nil, fmt.Errorf("decoding news response: %w", err)
		}
		all = append(all, nr.Results...)

		if nr.NextURL == "" {
			break
		}
		// The continuation cursor is followed verbatim.
		next = nr.NextURL
	}

	c.log.Debug("fetched news", "ticker", ticker, "articles", len(all))
	return all, nil
}

func (c *NewsClient) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building news request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &APIError{Provider: "news", Message: err.Error()}
	}
	defer resp.Body.Close()

	var buf []byte
	if resp.StatusCode == http.StatusOK {
		if buf, err = io.ReadAll(resp.Body); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("reading news response: %w", err)
		}
	}
	return buf, resp.StatusCode, nil
}
