package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/httputil"
	"github.com/kurpanel/kurpanel-backend/internal/models"
)

const defaultExchangeRateURL = "https://api.exchangerate-api.com/v4"

// ExchangeRateClient pulls the free currency table. The provider quotes
// rates[code] as units of code per 1 unit of the base currency.
type ExchangeRateClient struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewExchangeRateClient(baseURL string) *ExchangeRateClient {
	if baseURL == "" {
		baseURL = defaultExchangeRateURL
	}
	return &ExchangeRateClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

// FetchTable returns the raw pivot table for an arbitrary base currency.
// Used directly by the converter; the dashboard snapshot goes through
// FetchLatest instead.
func (c *ExchangeRateClient) FetchTable(ctx context.Context, base string) (map[string]float64, error) {
	return c.fetchTable(ctx, base, "")
}

// FetchLatest captures a TRY-quoted snapshot: each quote's Selling is TRY
// per 1 unit of the instrument, inverted from the provider's TRY-based
// table. Zero or missing provider rates are skipped.
func (c *ExchangeRateClient) FetchLatest(ctx context.Context) (*models.Snapshot, error) {
	rates, err := c.fetchTable(ctx, "TRY", "")
	if err != nil {
		return nil, err
	}
	return snapshotFromTable(rates), nil
}

// FetchAtDate is the best-effort historical variant. The free tier ignores
// unknown query parameters, so the result may silently be the latest table;
// callers needing reliable history use the historical FX provider instead.
func (c *ExchangeRateClient) FetchAtDate(ctx context.Context, date string) (*models.Snapshot, error) {
	rates, err := c.fetchTable(ctx, "TRY", date)
	if err != nil {
		return nil, err
	}
	return snapshotFromTable(rates), nil
}

func (c *ExchangeRateClient) fetchTable(ctx context.Context, base, date string) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/latest/%s", c.baseURL, url.PathEscape(base))
	if date != "" {
		endpoint += "?date=" + url.QueryEscape(date)
	}

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("exchangerate fetch: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("exchangerate", resp.StatusCode)
	}

	var data struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("exchangerate decode: %v: %w", err, ErrBadResponse)
	}
	if len(data.Rates) == 0 {
		return nil, fmt.Errorf("exchangerate: empty rate table: %w", ErrBadResponse)
	}
	return data.Rates, nil
}

func snapshotFromTable(rates map[string]float64) *models.Snapshot {
	now := time.Now()
	quotes := make(map[string]models.InstrumentQuote, len(rates))
	for code, perTRY := range rates {
		if perTRY <= 0 {
			continue
		}
		quotes[code] = models.InstrumentQuote{
			Code:    code,
			Selling: 1 / perTRY,
			AsOf:    now,
		}
	}
	return &models.Snapshot{Quotes: quotes, AsOf: now}
}
