package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Follow est idempotent : re-suivre quelqu'un répond 204 comme la
// première fois, jamais un conflit.
func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	if err := s.graph.Follow(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "user")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	if err := s.graph.Unfollow(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "user")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request) {
	page, err := s.graph.Followers(r.Context(), chi.URLParam(r, "user"), specFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, page, toUserBodies(page.Items))
}

func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	page, err := s.graph.Following(r.Context(), chi.URLParam(r, "user"), specFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, page, toUserBodies(page.Items))
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	page, err := s.feed.BuildFeed(r.Context(), callerFrom(r.Context()), specFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, page, toPostBodies(page.Items))
}
