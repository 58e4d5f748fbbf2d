package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
)

type authBody struct {
	User         userBody `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // secondes
}

func toAuthBody(resp *ports.AuthResponse) authBody {
	return authBody{
		User:         toUserBody(resp.User),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    int64(resp.ExpiresIn / time.Second),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Bio      string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Invalid("body", "invalid json"))
		return
	}

	resp, err := s.identity.Register(r.Context(), ports.RegisterCmd{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAuthBody(resp))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Invalid("body", "invalid json"))
		return
	}

	resp, err := s.identity.Login(r.Context(), ports.LoginCmd{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAuthBody(resp))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r.Context())
	if caller.Anonymous() {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	user, err := s.identity.GetUser(r.Context(), caller.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserBody(user))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r.Context())
	if caller.Anonymous() {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	var req struct {
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Invalid("body", "invalid json"))
		return
	}

	user, err := s.identity.UpdateProfile(r.Context(), caller, ports.UpdateProfileCmd{
		UserID:    caller.UserID,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserBody(user))
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r.Context())
	if caller.Anonymous() {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Invalid("body", "invalid json"))
		return
	}

	if err := s.identity.ChangePassword(r.Context(), caller, req.OldPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetUser sert le profil public par username.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "user")

	user, err := s.identity.GetUserByUsername(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserBody(user))
}
