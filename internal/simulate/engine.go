package simulate

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kurpanel/kurpanel-backend/internal/models"
)

// Validation failures, checked in this order.
var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrFutureDate    = errors.New("buy date cannot be in the future")
	ErrDateTooOld    = errors.New("buy date must be within the last year")
	ErrMissingRate   = errors.New("snapshot lacks a required rate")
)

// Engine computes buy-vs-now profit/loss from two pivot-based snapshots.
// Both snapshots must share the same pivot (the historical FX provider is
// EUR-pivoted); the per-unit price in the reference currency is always
// rates[ref] / rates[instrument], applied identically to both legs.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt pins the clock used for date validation.
func NewEngineAt(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Validate checks the inputs alone, so callers can reject a request
// before paying for the two snapshot fetches.
func (e *Engine) Validate(amount float64, buyDate time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	today := e.now()
	if buyDate.After(today) {
		return ErrFutureDate
	}
	if buyDate.Before(today.AddDate(-1, 0, 0)) {
		return ErrDateTooOld
	}
	return nil
}

// Simulate answers "had I bought this amount on buyDate, where would I
// stand today". Nothing is persisted; every call builds a fresh result.
func (e *Engine) Simulate(amount float64, instrument string, buyDate time.Time, buySnap, nowSnap *models.Snapshot, reference string) (*models.SimulationResult, error) {
	if err := e.Validate(amount, buyDate); err != nil {
		return nil, err
	}

	buyRate, err := crossRate(buySnap, instrument, reference)
	if err != nil {
		return nil, fmt.Errorf("buy date snapshot: %w", err)
	}
	currentRate, err := crossRate(nowSnap, instrument, reference)
	if err != nil {
		return nil, fmt.Errorf("current snapshot: %w", err)
	}

	amt := decimal.NewFromFloat(amount)
	buyValue := amt.Mul(buyRate)
	currentValue := amt.Mul(currentRate)
	profitLoss := currentValue.Sub(buyValue)

	percent := decimal.Zero
	if !buyValue.IsZero() {
		percent = profitLoss.Div(buyValue).Mul(decimal.NewFromInt(100))
	}

	return &models.SimulationResult{
		Instrument:        instrument,
		Amount:            amount,
		BuyDate:           buyDate.Format("2006-01-02"),
		BuyRate:           f64(buyRate),
		CurrentRate:       f64(currentRate),
		BuyValueTRY:       f64(buyValue),
		CurrentValueTRY:   f64(currentValue),
		ProfitLoss:        f64(profitLoss),
		ProfitLossPercent: f64(percent),
	}, nil
}

// crossRate derives "1 unit of instrument = X units of reference" from a
// pivot-based snapshot.
func crossRate(snap *models.Snapshot, instrument, reference string) (decimal.Decimal, error) {
	refQuote, ok := snap.Quote(reference)
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s: %w", reference, ErrMissingRate)
	}
	instQuote, ok := snap.Quote(instrument)
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s: %w", instrument, ErrMissingRate)
	}
	inst := decimal.NewFromFloat(instQuote.Selling)
	if inst.IsZero() {
		return decimal.Zero, fmt.Errorf("zero pivot rate for %s: %w", instrument, ErrMissingRate)
	}
	return decimal.NewFromFloat(refQuote.Selling).Div(inst), nil
}

func f64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
