package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kurpanel/kurpanel-backend/internal/dashboard"
	"github.com/kurpanel/kurpanel-backend/internal/models"
	"github.com/kurpanel/kurpanel-backend/internal/normalize"
	"github.com/kurpanel/kurpanel-backend/internal/portfolio"
)

// ledgerFor resolves the {category} path segment. Unknown categories get a
// nil ledger; handlers turn that into a 404.
func (s *Server) ledgerFor(category string) *portfolio.Ledger {
	switch category {
	case models.CategoryCurrency:
		return s.dash.CurrencyLedger()
	case models.CategoryGold:
		return s.dash.GoldLedger()
	default:
		return nil
	}
}

type portfolioListResponse struct {
	Category string                  `json:"category"`
	Filter   string                  `json:"filter"`
	Entries  []models.PortfolioEntry `json:"entries"`
	Total    float64                 `json:"total"`
}

func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	l := s.ledgerFor(category)
	if l == nil {
		writeError(w, http.StatusNotFound, "unknown portfolio category")
		return
	}

	f := portfolio.ParseFilter(r.URL.Query().Get("filter"))
	entries := l.Filtered(f)
	if entries == nil {
		entries = []models.PortfolioEntry{}
	}

	writeJSON(w, http.StatusOK, portfolioListResponse{
		Category: category,
		Filter:   string(f),
		Entries:  entries,
		Total:    l.Total(),
	})
}

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Totals())
}

type portfolioAddRequest struct {
	Code string `json:"code"`
}

func (s *Server) handlePortfolioAdd(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	l := s.ledgerFor(category)
	if l == nil {
		writeError(w, http.StatusNotFound, "unknown portfolio category")
		return
	}

	var req portfolioAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "body must carry a code")
		return
	}

	var err error
	switch category {
	case models.CategoryCurrency:
		c, ok := portfolio.CurrencyByCode(req.Code)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown currency code")
			return
		}
		err = l.Add(c.Code, c.DisplayName, c.Symbol, 1)
	case models.CategoryGold:
		gt, ok := normalize.GoldByCode(req.Code)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown gold type")
			return
		}
		err = l.Add(gt.Code, gt.DisplayName, "Adet", gt.Multiplier)
	}

	if errors.Is(err, portfolio.ErrDuplicateInstrument) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	// New entries pick up a value on the next recompute; trigger one now so
	// the response already carries current rates.
	s.refreshLedger(category, l)

	writeJSON(w, http.StatusCreated, portfolioListResponse{
		Category: category,
		Filter:   string(portfolio.FilterAll),
		Entries:  l.Filtered(portfolio.FilterAll),
		Total:    l.Total(),
	})
}

func (s *Server) handlePortfolioRemove(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	l := s.ledgerFor(category)
	if l == nil {
		writeError(w, http.StatusNotFound, "unknown portfolio category")
		return
	}

	l.Remove(r.PathValue("code"))
	w.WriteHeader(http.StatusNoContent)
}

type setAmountRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handlePortfolioSetAmount(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	l := s.ledgerFor(category)
	if l == nil {
		writeError(w, http.StatusNotFound, "unknown portfolio category")
		return
	}

	var req setAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "body must carry an amount")
		return
	}

	if !l.SetAmount(r.PathValue("code"), req.Amount) {
		writeError(w, http.StatusNotFound, "instrument not in portfolio")
		return
	}

	s.refreshLedger(category, l)

	writeJSON(w, http.StatusOK, portfolioListResponse{
		Category: category,
		Filter:   string(portfolio.FilterAll),
		Entries:  l.Filtered(portfolio.FilterAll),
		Total:    l.Total(),
	})
}

func (s *Server) handlePortfolioSparkline(w http.ResponseWriter, r *http.Request) {
	category, code := r.PathValue("category"), r.PathValue("code")

	points, err := s.dash.Sparkline(category, code)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrNoSnapshot):
			writeError(w, http.StatusServiceUnavailable, "no rates fetched yet for this instrument")
		default:
			writeError(w, http.StatusNotFound, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, points)
}

func (s *Server) refreshLedger(category string, l *portfolio.Ledger) {
	switch category {
	case models.CategoryCurrency:
		l.Recompute(s.dash.Currency().Latest())
	case models.CategoryGold:
		l.Recompute(s.dash.Gold().Latest())
	}
}
