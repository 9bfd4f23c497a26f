package models

// SimulationResult is the output of one buy-vs-now profit/loss calculation.
// Created fresh per request, never stored.
type SimulationResult struct {
	Instrument        string  `json:"instrument"`
	Amount            float64 `json:"amount"`
	BuyDate           string  `json:"buyDate"`
	BuyRate           float64 `json:"buyRate"`
	CurrentRate       float64 `json:"currentRate"`
	BuyValueTRY       float64 `json:"buyValueTry"`
	CurrentValueTRY   float64 `json:"currentValueTry"`
	ProfitLoss        float64 `json:"profitLoss"`
	ProfitLossPercent float64 `json:"profitLossPercent"`
}
