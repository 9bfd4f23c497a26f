package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/httputil"
	"github.com/kurpanel/kurpanel-backend/internal/models"
)

const defaultHistoricalFXURL = "http://api.exchangeratesapi.io/v1"

// HistoricalFXClient serves the profit/loss simulation. All responses are
// EUR-pivoted: rates[code] is units of code per 1 EUR. The snapshot keeps
// the pivot values as-is; the simulation engine derives cross rates.
type HistoricalFXClient struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewHistoricalFXClient(accessKey, baseURL string) *HistoricalFXClient {
	if baseURL == "" {
		baseURL = defaultHistoricalFXURL
	}
	return &HistoricalFXClient{
		accessKey:  accessKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 2,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		},
	}
}

// FetchAtDate returns the EUR-pivoted snapshot for a past day. Symbols
// always include TRY so a cross rate into the reference currency can be
// derived.
func (c *HistoricalFXClient) FetchAtDate(ctx context.Context, date string, symbols ...string) (*models.Snapshot, error) {
	return c.fetch(ctx, date, symbols)
}

// FetchLatest returns the EUR-pivoted snapshot for today.
func (c *HistoricalFXClient) FetchLatest(ctx context.Context, symbols ...string) (*models.Snapshot, error) {
	return c.fetch(ctx, "latest", symbols)
}

func (c *HistoricalFXClient) fetch(ctx context.Context, path string, symbols []string) (*models.Snapshot, error) {
	if c.accessKey == "" {
		return nil, fmt.Errorf("historical fx: no access key configured: %w", ErrAuth)
	}

	q := url.Values{}
	q.Set("access_key", c.accessKey)
	q.Set("base", "EUR")
	if len(symbols) > 0 {
		q.Set("symbols", strings.Join(symbols, ","))
	}
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(path), q.Encode())

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("historical fx fetch: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("historical fx", resp.StatusCode)
	}

	var data struct {
		Rates map[string]float64 `json:"rates"`
		Date  string             `json:"date"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("historical fx decode: %v: %w", err, ErrBadResponse)
	}
	if len(data.Rates) == 0 {
		return nil, fmt.Errorf("historical fx: no rate table in response: %w", ErrBadResponse)
	}

	now := time.Now()
	quotes := make(map[string]models.InstrumentQuote, len(data.Rates))
	for code, perEUR := range data.Rates {
		quotes[code] = models.InstrumentQuote{Code: code, Selling: perEUR, AsOf: now}
	}
	return &models.Snapshot{Quotes: quotes, AsOf: now}, nil
}
