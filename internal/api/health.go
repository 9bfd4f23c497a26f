package api

import (
	"net/http"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/poller"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Currency string `json:"currency"`
	Gold     string `json:"gold"`
}

func pollerStatus(c *poller.Cache) string {
	switch {
	case c.Loading():
		return "loading"
	case c.LastErr() != nil:
		return "stale"
	case c.Latest() == nil:
		return "empty"
	default:
		return "ok"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: healthServices{
			Currency: pollerStatus(s.dash.Currency()),
			Gold:     pollerStatus(s.dash.Gold()),
		},
	})
}
