package portfolio

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kurpanel/kurpanel-backend/internal/models"
	"github.com/kurpanel/kurpanel-backend/internal/normalize"
)

// ErrDuplicateInstrument is returned when an instrument is added twice.
var ErrDuplicateInstrument = errors.New("instrument already in portfolio")

// Filter selects which entries a listing returns and how they are sorted.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterRisers  Filter = "risers"
	FilterFallers Filter = "fallers"
)

// ParseFilter maps a query value to a Filter, defaulting to all.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterRisers, FilterFallers:
		return Filter(s)
	default:
		return FilterAll
	}
}

// Ledger holds the user's entries for one category in insertion order and
// recomputes their derived fields from each new snapshot. All state lives
// in memory; nothing survives a restart.
type Ledger struct {
	mu       sync.Mutex
	category string
	entries  []*models.PortfolioEntry
}

func NewLedger(category string) *Ledger {
	return &Ledger{category: category}
}

// NewCurrencyLedger returns the currency ledger seeded with the default
// starter set.
func NewCurrencyLedger() *Ledger {
	l := NewLedger(models.CategoryCurrency)
	for _, code := range []string{"USD", "EUR"} {
		c, _ := CurrencyByCode(code)
		l.Add(c.Code, c.DisplayName, c.Symbol, 1)
	}
	return l
}

// NewGoldLedger returns the gold ledger seeded with the default starter set.
func NewGoldLedger() *Ledger {
	l := NewLedger(models.CategoryGold)
	for _, code := range []string{"Gram", "Cumhuriyet", "Yarim", "Ceyrek"} {
		gt, _ := normalize.GoldByCode(code)
		l.Add(gt.Code, gt.DisplayName, "Adet", gt.Multiplier)
	}
	return l
}

// Add appends a new entry with amount 0.
func (l *Ledger) Add(code, displayName, unitSymbol string, multiplier float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if e.Code == code {
			return ErrDuplicateInstrument
		}
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	l.entries = append(l.entries, &models.PortfolioEntry{
		Code:        code,
		DisplayName: displayName,
		UnitSymbol:  unitSymbol,
		Category:    l.category,
		Multiplier:  multiplier,
	})
	return nil
}

// Remove drops an entry; removing an absent code is a no-op.
func (l *Ledger) Remove(code string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, e := range l.entries {
		if e.Code == code {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// SetAmount parses user input and stores it. Anything unparseable or
// negative is coerced to 0 — the stored amount is always a valid
// non-negative number and SetAmount never fails.
func (l *Ledger) SetAmount(code, raw string) bool {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if e.Code == code {
			e.Amount = amount
			e.Value = deriveValue(e)
			return true
		}
	}
	return false
}

// Recompute refreshes every entry's derived fields from the snapshot.
// Entries the snapshot does not cover keep their last known values; they
// are never zeroed by a sparse cycle.
func (l *Ledger) Recompute(snap *models.Snapshot) {
	if snap == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		q, ok := snap.Quote(e.Code)
		if !ok {
			continue
		}
		e.Buying = q.Buying
		e.Selling = q.Selling
		e.ChangePercent = q.ChangePercent
		e.UpdatedAt = q.AsOf
		e.Value = deriveValue(e)
	}
}

func deriveValue(e *models.PortfolioEntry) float64 {
	v := decimal.NewFromFloat(e.Amount).
		Mul(decimal.NewFromFloat(e.Selling)).
		Mul(decimal.NewFromFloat(e.Multiplier))
	f, _ := v.Float64()
	return f
}

// Entries returns a copy of all entries in insertion order.
func (l *Ledger) Entries() []models.PortfolioEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.PortfolioEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = *e
	}
	return out
}

// Filtered returns entries selected and ordered by the filter: risers are
// positive movers sorted by change descending, fallers negative movers
// sorted ascending, and "all" is everything sorted by code.
func (l *Ledger) Filtered(f Filter) []models.PortfolioEntry {
	entries := l.Entries()

	out := entries[:0:0]
	for _, e := range entries {
		switch f {
		case FilterRisers:
			if e.ChangePercent > 0 {
				out = append(out, e)
			}
		case FilterFallers:
			if e.ChangePercent < 0 {
				out = append(out, e)
			}
		default:
			out = append(out, e)
		}
	}

	switch f {
	case FilterRisers:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ChangePercent > out[j].ChangePercent })
	case FilterFallers:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ChangePercent < out[j].ChangePercent })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	}
	return out
}

// Total sums derived values across the ledger.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	sum := decimal.Zero
	for _, e := range l.entries {
		sum = sum.Add(decimal.NewFromFloat(e.Value))
	}
	f, _ := sum.Float64()
	return f
}

// Totals aggregates a currency and a gold ledger into one summary.
func Totals(currency, gold *Ledger) models.PortfolioTotals {
	cv := decimal.NewFromFloat(currency.Total())
	gv := decimal.NewFromFloat(gold.Total())
	total, _ := cv.Add(gv).Float64()
	c, _ := cv.Float64()
	g, _ := gv.Float64()
	return models.PortfolioTotals{TotalValue: total, CurrencyValue: c, GoldValue: g}
}
