package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	page, err := s.notifications.List(r.Context(), callerFrom(r.Context()), specFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, page, toNotificationBodies(page.Items))
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	err := s.notifications.MarkRead(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "notificationID"))
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
