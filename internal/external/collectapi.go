package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/httputil"
	"github.com/kurpanel/kurpanel-backend/internal/models"
	"github.com/kurpanel/kurpanel-backend/internal/normalize"
)

const defaultCollectAPIURL = "https://api.collectapi.com/economy"

// CollectAPIClient pulls gold prices. The provider names instruments with
// free text ("Çeyrek Altın", "22 Ayar Bilezik", ...) which is resolved to
// canonical codes through the normalizer; entries that match nothing are
// skipped, never fatal.
type CollectAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewCollectAPIClient(apiKey, baseURL string) *CollectAPIClient {
	if baseURL == "" {
		baseURL = defaultCollectAPIURL
	}
	return &CollectAPIClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

type goldResponse struct {
	Success bool       `json:"success"`
	Result  []goldItem `json:"result"`
}

type goldItem struct {
	Name         string    `json:"name"`
	Buying       flexFloat `json:"buying"`
	Selling      flexFloat `json:"selling"`
	Datetime     string    `json:"datetime"`
	ChangeRate   flexFloat `json:"change_rate"`
	ChangeAmount flexFloat `json:"change_amount"`
}

// FetchLatest captures a snapshot of all recognized gold sub-types, keyed
// by canonical code. When the provider lists only the gram price, the other
// sub-types are derived from it through their gram-equivalent multipliers.
func (c *CollectAPIClient) FetchLatest(ctx context.Context) (*models.Snapshot, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("collectapi: no API key configured: %w", ErrAuth)
	}

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/goldPrice", nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "apikey "+c.apiKey)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collectapi fetch: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("collectapi", resp.StatusCode)
	}

	var data goldResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("collectapi decode: %v: %w", err, ErrBadResponse)
	}
	if !data.Success || len(data.Result) == 0 {
		return nil, fmt.Errorf("collectapi: no rate table in response: %w", ErrBadResponse)
	}

	now := time.Now()
	quotes := make(map[string]models.InstrumentQuote)
	for _, item := range data.Result {
		gt, ok := normalize.MatchGold(item.Name)
		if !ok {
			continue
		}
		if _, dup := quotes[gt.Code]; dup {
			continue // first match wins per catalog order
		}
		buying, selling := float64(item.Buying), float64(item.Selling)
		if selling <= 0 {
			continue
		}
		quotes[gt.Code] = models.InstrumentQuote{
			Code:          gt.Code,
			Buying:        buying,
			Selling:       selling,
			ChangePercent: float64(item.ChangeRate),
			AsOf:          parseGoldTime(item.Datetime, now),
		}
	}

	fillFromGram(quotes, now)

	if len(quotes) == 0 {
		return nil, fmt.Errorf("collectapi: no gold names matched the catalog: %w", ErrBadResponse)
	}
	return &models.Snapshot{Quotes: quotes, AsOf: now}, nil
}

// fillFromGram derives any missing sub-type from the gram quote and the
// catalog multipliers, so a sparse provider response still yields a full
// snapshot.
func fillFromGram(quotes map[string]models.InstrumentQuote, now time.Time) {
	gram, ok := quotes["Gram"]
	if !ok {
		return
	}
	for _, gt := range normalize.GoldCatalog {
		if _, present := quotes[gt.Code]; present {
			continue
		}
		quotes[gt.Code] = models.InstrumentQuote{
			Code:          gt.Code,
			Buying:        gram.Buying * gt.Multiplier,
			Selling:       gram.Selling * gt.Multiplier,
			ChangePercent: gram.ChangePercent,
			AsOf:          now,
		}
	}
}

func parseGoldTime(s string, fallback time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "02.01.2006 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}

// flexFloat tolerates the provider switching between JSON numbers and
// quoted numbers for the same field.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil // tolerated: entry is skipped by the zero-price check
	}
	*f = flexFloat(v)
	return nil
}
