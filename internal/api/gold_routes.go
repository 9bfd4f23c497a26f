package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kurpanel/kurpanel-backend/internal/dashboard"
)

func (s *Server) handleGoldLatest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, snapshotResponse(s.dash.Gold()))
}

func (s *Server) handleGoldHistory(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	h, err := s.dash.GoldHistory(code)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrUnknownInstrument):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, dashboard.ErrNoSnapshot):
			writeError(w, http.StatusServiceUnavailable, "no gold rates fetched yet")
		default:
			fmt.Printf("Error building history for %s: %v\n", code, err)
			writeError(w, http.StatusInternalServerError, "failed to build history")
		}
		return
	}

	writeJSON(w, http.StatusOK, h)
}
