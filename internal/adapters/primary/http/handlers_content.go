package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
)

// --- POSTS ---

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := s.content.ListPosts(r.Context(), specFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, page, toPostBodies(page.Items))
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Invalid("body", "invalid json"))
		return
	}

	post, err := s.content.CreatePost(r.Context(), callerFrom(r.Context()), ports.CreatePostCmd{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPostBody(post))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.content.GetPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPostBody(post))
}

// handleUpdatePost sert PUT comme PATCH : les champs absents du corps
// restent inchangés.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Invalid("body", "invalid json"))
		return
	}

	post, err := s.content.UpdatePost(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "postID"), ports.PostPatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPostBody(post))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeletePost(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "postID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePostComments liste les commentaires d'un post : même moteur que
// /comments/, avec le filtre post_id imposé par l'URL.
func (s *Server) handlePostComments(w http.ResponseWriter, r *http.Request) {
	if _, err := s.content.GetPost(r.Context(), chi.URLParam(r, "postID")); err != nil {
		respondError(w, err)
		return
	}

	spec := specFromRequest(r)
	if spec.Filters == nil {
		spec.Filters = make(map[string]string)
	}
	spec.Filters["post_id"] = chi.URLParam(r, "postID")

	page, err := s.content.ListComments(r.Context(), spec)
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, page, toCommentBodies(page.Items))
}

func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request) {
	if err := s.content.LikePost(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "postID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnlikePost(w http.ResponseWriter, r *http.Request) {
	if err := s.content.UnlikePost(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "postID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- COMMENTAIRES ---

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	page, err := s.content.ListComments(r.Context(), specFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, page, toCommentBodies(page.Items))
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PostID  string `json:"post_id"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Invalid("body", "invalid json"))
		return
	}

	comment, err := s.content.CreateComment(r.Context(), callerFrom(r.Context()), ports.CreateCommentCmd{
		PostID:  req.PostID,
		Content: req.Content,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCommentBody(comment))
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := s.content.GetComment(r.Context(), chi.URLParam(r, "commentID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCommentBody(comment))
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Invalid("body", "invalid json"))
		return
	}

	comment, err := s.content.UpdateComment(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "commentID"), ports.CommentPatch{
		Content: req.Content,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCommentBody(comment))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeleteComment(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "commentID")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
