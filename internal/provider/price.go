package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// PricePoint is one provider-native daily bar.
type PricePoint struct {
	Date        string  `json:"date"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      int64   `json:"volume"`
	AdjOpen     float64 `json:"adjOpen"`
	AdjHigh     float64 `json:"adjHigh"`
	AdjLow      float64 `json:"adjLow"`
	AdjClose    float64 `json:"adjClose"`
	AdjVolume   int64   `json:"adjVolume"`
	DivCash     float64 `json:"divCash"`
	SplitFactor float64 `json:"splitFactor"`
}

// SymbolInfo is the provider's company reference payload.
type SymbolInfo struct {
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	ExchangeCode string `json:"exchangeCode"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Description  string `json:"description"`
}

// PriceClient fetches daily price history and symbol metadata from the
// price provider.
type PriceClient struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

// PriceClientOptions configures a PriceClient. RetryWaitBase overrides the
// backoff base delay; leave zero for the production default.
type PriceClientOptions struct {
	BaseURL       string
	Token         string
	RetryWaitBase time.Duration
	Logger        *slog.Logger
}

// NewPriceClient creates a PriceClient with the shared retry policy.
func NewPriceClient(opts PriceClientOptions) *PriceClient {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceClient{
		baseURL: opts.BaseURL,
		token:   opts.Token,
		http:    newRetryClient(opts.RetryWaitBase),
		log:     logger.With("client", "price"),
	}
}

// FetchPrices returns the provider's daily bars for ticker in
// [startDate, endDate]. endDate may be empty, in which case the provider
// defaults to today. A 404 means the ticker does not exist and is returned
// as a typed not-found error.
func (c *PriceClient) FetchPrices(ctx context.Context, ticker, startDate, endDate string) ([]PricePoint, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	q.Set("token", c.token)
	u := fmt.Sprintf("%s/prices/%s?%s", c.baseURL, url.PathEscape(ticker), q.Encode())

	c.log.Debug("fetching prices", "ticker", ticker, "start", startDate, "end", endDate)

	var points []PricePoint
	if err := c.getJSON(ctx, u, ticker, &points); err != nil {
		return nil, err
	}

	c.log.Debug("fetched prices", "ticker", ticker, "rows", len(points))
	return points, nil
}

// FetchMetadata returns company reference data for ticker.
func (c *PriceClient) FetchMetadata(ctx context.Context, ticker string) (*SymbolInfo, error) {
	q := url.Values{}
	q.Set("token", c.token)
	u := fmt.Sprintf("%s/metadata/%s?%s", c.baseURL, url.PathEscape(ticker), q.Encode())

	info := &SymbolInfo{}
	if err := c.getJSON(ctx, u, ticker, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *PriceClient) getJSON(ctx context.Context, u, ticker string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building price request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Provider: "price", Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding price response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &APIError{Provider: "price", StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("ticker %q not found", ticker)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &APIError{Provider: "price", StatusCode: resp.StatusCode,
			Message: "rate limit exceeded, try again in a moment"}
	case resp.StatusCode == http.StatusUnauthorized:
		return &APIError{Provider: "price", StatusCode: resp.StatusCode,
			Message: "invalid API token"}
	default:
		return &APIError{Provider: "price", StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("unexpected status fetching %s", ticker)}
	}
}
