package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/dashboard"
	"github.com/kurpanel/kurpanel-backend/internal/models"
	"github.com/kurpanel/kurpanel-backend/internal/poller"
	"github.com/kurpanel/kurpanel-backend/internal/simulate"
)

type ratesResponse struct {
	Quotes  []models.InstrumentQuote `json:"quotes"`
	AsOf    time.Time                `json:"asOf"`
	Loading bool                     `json:"loading"`
	Stale   bool                     `json:"stale"`
}

// snapshotResponse flattens a poller cache into the wire shape shared by the
// currency and gold endpoints. Stale means the last poll failed but an older
// snapshot is still being served.
func snapshotResponse(c *poller.Cache) ratesResponse {
	resp := ratesResponse{
		Quotes:  []models.InstrumentQuote{},
		Loading: c.Loading(),
		Stale:   c.LastErr() != nil,
	}
	snap := c.Latest()
	if snap == nil {
		return resp
	}
	resp.AsOf = snap.AsOf
	for _, q := range snap.Quotes {
		resp.Quotes = append(resp.Quotes, q)
	}
	sort.Slice(resp.Quotes, func(i, j int) bool { return resp.Quotes[i].Code < resp.Quotes[j].Code })
	return resp
}

func (s *Server) handleRatesLatest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, snapshotResponse(s.dash.Currency()))
}

type convertResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Converted float64 `json:"converted"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a number")
		return
	}

	converted, err := s.dash.Convert(r.Context(), from, to, amount)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrUnknownCurrency), errors.Is(err, simulate.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			fmt.Printf("Error converting %s to %s: %v\n", from, to, err)
			writeError(w, http.StatusBadGateway, "rate provider unavailable")
		}
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{From: from, To: to, Amount: amount, Converted: converted})
}
