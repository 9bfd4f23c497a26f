package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/dashboard"
	"github.com/kurpanel/kurpanel-backend/internal/external"
	"github.com/kurpanel/kurpanel-backend/internal/simulate"
)

type simulateRequest struct {
	Amount     float64 `json:"amount"`
	Instrument string  `json:"instrument"`
	BuyDate    string  `json:"buyDate"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !validateDate(req.BuyDate) {
		writeError(w, http.StatusBadRequest, "buyDate must be YYYY-MM-DD")
		return
	}
	buyDate, _ := time.Parse("2006-01-02", req.BuyDate)

	res, err := s.dash.Simulate(r.Context(), req.Amount, req.Instrument, buyDate)
	if err != nil {
		switch {
		case errors.Is(err, simulate.ErrInvalidAmount),
			errors.Is(err, simulate.ErrFutureDate),
			errors.Is(err, simulate.ErrDateTooOld),
			errors.Is(err, dashboard.ErrUnknownCurrency):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, simulate.ErrMissingRate):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, external.ErrAuth):
			writeError(w, http.StatusServiceUnavailable, "historical rate provider not configured")
		default:
			fmt.Printf("Error simulating %s purchase: %v\n", req.Instrument, err)
			writeError(w, http.StatusBadGateway, "historical rate provider unavailable")
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}
