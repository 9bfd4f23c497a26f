package models

import "time"

// Portfolio categories.
const (
	CategoryCurrency = "currency"
	CategoryGold     = "gold"
)

// PortfolioEntry is one held instrument. Amount is user input; Value,
// Selling and ChangePercent are derived from the latest snapshot and keep
// their last known values when a snapshot is missing the instrument.
type PortfolioEntry struct {
	Code        string  `json:"code"`
	DisplayName string  `json:"displayName"`
	UnitSymbol  string  `json:"unitSymbol"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Multiplier  float64 `json:"multiplier"`

	Buying        float64   `json:"buying,omitempty"`
	Selling       float64   `json:"selling"`
	ChangePercent float64   `json:"changePercent"`
	Value         float64   `json:"value"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PortfolioTotals aggregates derived values across both categories.
type PortfolioTotals struct {
	TotalValue    float64 `json:"totalValue"`
	CurrencyValue float64 `json:"currencyValue"`
	GoldValue     float64 `json:"goldValue"`
}
