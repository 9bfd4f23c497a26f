package portfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/models"
)

func currencySnapshot(rates map[string]float64, changes map[string]float64) *models.Snapshot {
	now := time.Now()
	quotes := make(map[string]models.InstrumentQuote, len(rates))
	for code, r := range rates {
		quotes[code] = models.InstrumentQuote{
			Code:          code,
			Selling:       r,
			ChangePercent: changes[code],
			AsOf:          now,
		}
	}
	return &models.Snapshot{Quotes: quotes, AsOf: now}
}

func TestAdd_Duplicate(t *testing.T) {
	l := NewLedger(models.CategoryCurrency)
	if err := l.Add("USD", "Amerikan Doları", "$", 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := l.Add("USD", "Amerikan Doları", "$", 1)
	if !errors.Is(err, ErrDuplicateInstrument) {
		t.Fatalf("expected ErrDuplicateInstrument, got %v", err)
	}
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	l := NewCurrencyLedger()
	before := len(l.Entries())
	l.Remove("ZZZ")
	if got := len(l.Entries()); got != before {
		t.Fatalf("expected %d entries, got %d", before, got)
	}
	l.Remove("USD")
	l.Remove("USD")
	if got := len(l.Entries()); got != before-1 {
		t.Fatalf("expected %d entries after double remove, got %d", before-1, got)
	}
}

func TestSetAmount_CoercesInvalidInputToZero(t *testing.T) {
	l := NewCurrencyLedger()
	l.SetAmount("USD", "150.5")
	if got := l.Entries()[0].Amount; got != 150.5 {
		t.Fatalf("expected 150.5, got %v", got)
	}

	for _, raw := range []string{"-5", "abc", "", "NaN", "Inf", "-0.001"} {
		l.SetAmount("USD", raw)
		for _, e := range l.Entries() {
			if e.Code == "USD" && e.Amount != 0 {
				t.Fatalf("SetAmount(%q): expected 0, got %v", raw, e.Amount)
			}
		}
	}
}

func TestSetAmount_UnknownCode(t *testing.T) {
	l := NewCurrencyLedger()
	if l.SetAmount("ZZZ", "10") {
		t.Fatal("expected false for unknown code")
	}
}

func TestRecompute_DerivesValueAndIsIdempotent(t *testing.T) {
	l := NewCurrencyLedger()
	l.SetAmount("USD", "100")

	snap := currencySnapshot(map[string]float64{"USD": 34.5, "EUR": 37.2}, nil)
	l.Recompute(snap)

	var usd models.PortfolioEntry
	for _, e := range l.Entries() {
		if e.Code == "USD" {
			usd = e
		}
	}
	if usd.Value != 3450 {
		t.Fatalf("expected value 3450, got %v", usd.Value)
	}

	// Same snapshot twice must yield identical derived fields.
	l.Recompute(snap)
	for _, e := range l.Entries() {
		if e.Code == "USD" && e != usd {
			t.Fatalf("recompute not idempotent: %+v vs %+v", e, usd)
		}
	}
}

func TestRecompute_MissingCodeKeepsLastKnownValues(t *testing.T) {
	l := NewCurrencyLedger()
	l.SetAmount("EUR", "10")

	l.Recompute(currencySnapshot(map[string]float64{"USD": 34.5, "EUR": 37.2}, nil))
	l.Recompute(currencySnapshot(map[string]float64{"USD": 35.0}, nil))

	for _, e := range l.Entries() {
		if e.Code == "EUR" {
			if e.Selling != 37.2 || e.Value != 372 {
				t.Fatalf("EUR derived fields were clobbered: selling=%v value=%v", e.Selling, e.Value)
			}
		}
		if e.Code == "USD" && e.Selling != 35.0 {
			t.Fatalf("USD should have refreshed to 35.0, got %v", e.Selling)
		}
	}
}

func TestRecompute_GoldUsesMultiplier(t *testing.T) {
	l := NewGoldLedger()
	l.SetAmount("Ceyrek", "2")

	now := time.Now()
	snap := &models.Snapshot{
		Quotes: map[string]models.InstrumentQuote{
			"Ceyrek": {Code: "Ceyrek", Buying: 4900, Selling: 5000, AsOf: now},
		},
		AsOf: now,
	}
	l.Recompute(snap)

	for _, e := range l.Entries() {
		if e.Code == "Ceyrek" && e.Value != 2*5000*1.75 {
			t.Fatalf("expected %v, got %v", 2*5000*1.75, e.Value)
		}
	}
}

func TestFiltered_RisersAndFallers(t *testing.T) {
	l := NewLedger(models.CategoryCurrency)
	l.Add("AAA", "A", "a", 1)
	l.Add("BBB", "B", "b", 1)
	l.Add("CCC", "C", "c", 1)
	l.Recompute(currencySnapshot(
		map[string]float64{"AAA": 1, "BBB": 1, "CCC": 1},
		map[string]float64{"AAA": 1, "BBB": -2, "CCC": 5},
	))

	risers := l.Filtered(FilterRisers)
	if len(risers) != 2 || risers[0].ChangePercent != 5 || risers[1].ChangePercent != 1 {
		t.Fatalf("risers wrong: %+v", risers)
	}

	fallers := l.Filtered(FilterFallers)
	if len(fallers) != 1 || fallers[0].Code != "BBB" {
		t.Fatalf("fallers wrong: %+v", fallers)
	}

	all := l.Filtered(FilterAll)
	if len(all) != 3 || all[0].Code != "AAA" || all[1].Code != "BBB" || all[2].Code != "CCC" {
		t.Fatalf("all should be code-ordered: %+v", all)
	}
}

func TestParseFilter(t *testing.T) {
	if ParseFilter("risers") != FilterRisers || ParseFilter("fallers") != FilterFallers {
		t.Fatal("named filters must parse")
	}
	if ParseFilter("") != FilterAll || ParseFilter("bogus") != FilterAll {
		t.Fatal("unknown filters must default to all")
	}
}

func TestTotals(t *testing.T) {
	cur := NewCurrencyLedger()
	cur.SetAmount("USD", "100")
	cur.Recompute(currencySnapshot(map[string]float64{"USD": 30, "EUR": 35}, nil))

	gold := NewGoldLedger()
	gold.SetAmount("Gram", "10")
	now := time.Now()
	gold.Recompute(&models.Snapshot{
		Quotes: map[string]models.InstrumentQuote{"Gram": {Code: "Gram", Selling: 3000, AsOf: now}},
		AsOf:   now,
	})

	got := Totals(cur, gold)
	if got.CurrencyValue != 3000 || got.GoldValue != 30000 || got.TotalValue != 33000 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}
