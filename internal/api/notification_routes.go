package api

import (
	"net/http"

	"github.com/kurpanel/kurpanel-backend/internal/models"
)

type notificationsResponse struct {
	Items  []models.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

func (s *Server) handleNotificationsList(w http.ResponseWriter, r *http.Request) {
	c := s.dash.Center()
	writeJSON(w, http.StatusOK, notificationsResponse{
		Items:  c.List(),
		Unread: c.UnreadCount(),
	})
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	if !s.dash.Center().MarkRead(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "unknown notification id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotificationsClear(w http.ResponseWriter, r *http.Request) {
	s.dash.Center().ClearAll()
	w.WriteHeader(http.StatusNoContent)
}
