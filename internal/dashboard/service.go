package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/models"
	"github.com/kurpanel/kurpanel-backend/internal/normalize"
	"github.com/kurpanel/kurpanel-backend/internal/notifications"
	"github.com/kurpanel/kurpanel-backend/internal/poller"
	"github.com/kurpanel/kurpanel-backend/internal/portfolio"
	"github.com/kurpanel/kurpanel-backend/internal/simulate"
	"github.com/kurpanel/kurpanel-backend/internal/trend"
)

var (
	ErrUnknownCurrency   = errors.New("unknown currency code")
	ErrUnknownInstrument = errors.New("unknown gold instrument")
	ErrNoSnapshot        = errors.New("no rate snapshot available yet")
)

// alertCurrencies are the codes watched for sudden moves between polls.
var alertCurrencies = []string{"USD", "EUR", "GBP"}

// CurrencySource feeds the currency poller and the converter.
type CurrencySource interface {
	FetchLatest(ctx context.Context) (*models.Snapshot, error)
	FetchTable(ctx context.Context, base string) (map[string]float64, error)
}

// GoldSource feeds the gold poller.
type GoldSource interface {
	FetchLatest(ctx context.Context) (*models.Snapshot, error)
}

// HistorySource serves the profit/loss simulation with EUR-pivoted tables.
type HistorySource interface {
	FetchAtDate(ctx context.Context, date string, symbols ...string) (*models.Snapshot, error)
	FetchLatest(ctx context.Context, symbols ...string) (*models.Snapshot, error)
}

type Options struct {
	Currency CurrencySource
	Gold     GoldSource
	History  HistorySource
	Notify   *notifications.Sender

	CurrencyInterval time.Duration
	GoldInterval     time.Duration

	// AlertThresholdPercent is the minimum |change| between two consecutive
	// polls that raises a notification for a watched currency.
	AlertThresholdPercent float64
}

// Service wires the pollers, the portfolio ledgers, the notification center
// and the simulation engine into one dashboard. Everything lives in memory;
// restarting the process resets all of it.
type Service struct {
	currency CurrencySource
	history  HistorySource
	notify   *notifications.Sender

	currencyCache *poller.Cache
	goldCache     *poller.Cache

	currencyLedger *portfolio.Ledger
	goldLedger     *portfolio.Ledger

	center *notifications.Center
	trends *trend.Generator
	engine *simulate.Engine

	alertThreshold float64
}

func NewService(opts Options) *Service {
	s := &Service{
		currency:       opts.Currency,
		history:        opts.History,
		notify:         opts.Notify,
		currencyLedger: portfolio.NewCurrencyLedger(),
		goldLedger:     portfolio.NewGoldLedger(),
		center:         notifications.NewCenter(),
		trends:         trend.NewGenerator(nil),
		engine:         simulate.NewEngine(),
		alertThreshold: opts.AlertThresholdPercent,
	}

	s.currencyCache = poller.New("currency", opts.CurrencyInterval, func(ctx context.Context) (*models.Snapshot, error) {
		snap, err := opts.Currency.FetchLatest(ctx)
		if err != nil {
			return nil, err
		}
		annotateChanges(snap, s.currencyCache.Latest())
		return snap, nil
	})
	s.currencyCache.OnUpdate(s.onCurrencyUpdate)

	s.goldCache = poller.New("gold", opts.GoldInterval, func(ctx context.Context) (*models.Snapshot, error) {
		return opts.Gold.FetchLatest(ctx)
	})
	s.goldCache.OnUpdate(s.onGoldUpdate)

	return s
}

// Start launches both polling loops. The first cycle of each fires
// immediately so the dashboard has data as soon as the providers answer.
func (s *Service) Start() {
	fmt.Println("[DASHBOARD] Starting rate polling")
	s.currencyCache.Start()
	s.goldCache.Start()
}

func (s *Service) Stop() {
	s.currencyCache.Stop()
	s.goldCache.Stop()
	fmt.Println("[DASHBOARD] Stopped")
}

// annotateChanges stamps each quote with its move since the previous poll.
// The currency provider exposes no change figure of its own.
func annotateChanges(next, prev *models.Snapshot) {
	if next == nil || prev == nil {
		return
	}
	for code, q := range next.Quotes {
		if old, ok := prev.Quote(code); ok && old.Selling > 0 {
			q.ChangePercent = (q.Selling - old.Selling) / old.Selling * 100
			next.Quotes[code] = q
		}
	}
}

func (s *Service) onCurrencyUpdate(prev, next *models.Snapshot) {
	s.currencyLedger.Recompute(next)

	if prev == nil {
		return
	}
	for _, code := range alertCurrencies {
		q, ok := next.Quote(code)
		if !ok {
			continue
		}
		old, ok := prev.Quote(code)
		if !ok || old.Selling <= 0 {
			continue
		}
		change := (q.Selling - old.Selling) / old.Selling * 100
		if math.Abs(change) < s.alertThreshold {
			continue
		}

		verb := "yükseldi"
		if change < 0 {
			verb = "düştü"
		}
		msg := fmt.Sprintf("%s kuru %%%.2f %s. Güncel satış: %s",
			code, math.Abs(change), verb, notifications.FormatTRY(q.Selling))
		s.center.Add(msg)
		if s.notify != nil {
			s.notify.Send(msg)
		}
	}
}

func (s *Service) onGoldUpdate(prev, next *models.Snapshot) {
	s.goldLedger.Recompute(next)
}

// Currency exposes the currency rate cache for read access.
func (s *Service) Currency() *poller.Cache { return s.currencyCache }

// Gold exposes the gold rate cache for read access.
func (s *Service) Gold() *poller.Cache { return s.goldCache }

func (s *Service) CurrencyLedger() *portfolio.Ledger { return s.currencyLedger }
func (s *Service) GoldLedger() *portfolio.Ledger     { return s.goldLedger }

func (s *Service) Center() *notifications.Center { return s.center }

// Totals sums both ledgers at their last recomputed rates.
func (s *Service) Totals() models.PortfolioTotals {
	return portfolio.Totals(s.currencyLedger, s.goldLedger)
}

// Convert values an amount of one currency in another using a fresh pivot
// table based on the source currency.
func (s *Service) Convert(ctx context.Context, from, to string, amount float64) (float64, error) {
	if amount < 0 {
		return 0, simulate.ErrInvalidAmount
	}
	table, err := s.currency.FetchTable(ctx, from)
	if err != nil {
		return 0, err
	}
	rate, ok := table[to]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%s: %w", to, ErrUnknownCurrency)
	}
	return amount * rate, nil
}

// GoldHistory is a synthetic 24-hour series around the instrument's current
// price, with a trend classification of the series. It exists for chart
// continuity; the gold provider has no real history endpoint.
type GoldHistory struct {
	Code        string                   `json:"code"`
	DisplayName string                   `json:"displayName"`
	Points      []models.HistoricalPoint `json:"points"`
	Trend       trend.Result             `json:"trend"`
}

func (s *Service) GoldHistory(code string) (*GoldHistory, error) {
	gt, ok := normalize.GoldByCode(code)
	if !ok {
		return nil, fmt.Errorf("%s: %w", code, ErrUnknownInstrument)
	}
	q, ok := s.goldCache.Latest().Quote(gt.Code)
	if !ok {
		return nil, fmt.Errorf("%s: %w", code, ErrNoSnapshot)
	}

	points := s.trends.Series(q.Selling, 24, time.Hour, 2)
	result, err := trend.Classify(trend.Values(points))
	if err != nil {
		return nil, err
	}
	return &GoldHistory{
		Code:        gt.Code,
		DisplayName: gt.DisplayName,
		Points:      points,
		Trend:       result,
	}, nil
}

// Sparkline is a small display-only series for one portfolio entry,
// anchored on its last known selling price: seven daily points within ±1%.
func (s *Service) Sparkline(category, code string) ([]models.HistoricalPoint, error) {
	var l *portfolio.Ledger
	switch category {
	case models.CategoryCurrency:
		l = s.currencyLedger
	case models.CategoryGold:
		l = s.goldLedger
	default:
		return nil, fmt.Errorf("%s: %w", category, ErrUnknownInstrument)
	}

	for _, e := range l.Entries() {
		if e.Code == code {
			if e.Selling <= 0 {
				return nil, fmt.Errorf("%s: %w", code, ErrNoSnapshot)
			}
			return s.trends.Series(e.Selling, 7, 24*time.Hour, 1), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", code, ErrUnknownInstrument)
}

// Simulate fetches the two EUR-pivoted tables for the buy date and today and
// runs the profit/loss engine against TRY.
func (s *Service) Simulate(ctx context.Context, amount float64, instrument string, buyDate time.Time) (*models.SimulationResult, error) {
	if _, ok := portfolio.CurrencyByCode(instrument); !ok {
		return nil, fmt.Errorf("%s: %w", instrument, ErrUnknownCurrency)
	}
	if err := s.engine.Validate(amount, buyDate); err != nil {
		return nil, err
	}

	symbols := []string{instrument, "TRY"}
	buySnap, err := s.history.FetchAtDate(ctx, buyDate.Format("2006-01-02"), symbols...)
	if err != nil {
		return nil, fmt.Errorf("buy date rates: %w", err)
	}
	nowSnap, err := s.history.FetchLatest(ctx, symbols...)
	if err != nil {
		return nil, fmt.Errorf("current rates: %w", err)
	}

	return s.engine.Simulate(amount, instrument, buyDate, buySnap, nowSnap, "TRY")
}
