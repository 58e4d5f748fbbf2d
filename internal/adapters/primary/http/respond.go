package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

// errorBody est l'enveloppe d'erreur exposée aux clients.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// pageBody est l'enveloppe des réponses paginées.
type pageBody struct {
	Items    any `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("write response", "error", err)
		}
	}
}

func respondPage[T any](w http.ResponseWriter, page *query.Page[T], items any) {
	respondJSON(w, http.StatusOK, pageBody{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// respondError traduit la taxonomie du domaine en statut HTTP. Tout ce
// qui n'est pas reconnu part en 500 sans fuiter le message interne.
func respondError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorBody{Kind: "unauthenticated", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorBody{Kind: "forbidden", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{Kind: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidQuery):
		respondJSON(w, http.StatusBadRequest, errorBody{Kind: "invalid_query", Message: err.Error()})
	case errors.As(err, &vErr):
		respondJSON(w, http.StatusBadRequest, errorBody{Kind: "validation", Message: err.Error()})
	case errors.Is(err, domain.ErrSelfFollow):
		respondJSON(w, http.StatusBadRequest, errorBody{Kind: "validation", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrEmailAlreadyExists):
		respondJSON(w, http.StatusConflict, errorBody{Kind: "conflict", Message: err.Error()})
	default:
		slog.Error("unhandled error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Kind: "internal", Message: "internal server error"})
	}
}

// --- DTOs ---

type userBody struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type postBody struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	LikeCount int64     `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type commentBody struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type notificationBody struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Type      string    `json:"type"`
	TargetID  string    `json:"target_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserBody(u *domain.User) userBody {
	return userBody{
		ID:        u.ID,
		Username:  u.Username,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func toPostBody(p *domain.Post) postBody {
	return postBody{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toCommentBody(c *domain.Comment) commentBody {
	return commentBody{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toNotificationBody(n *domain.Notification) notificationBody {
	return notificationBody{
		ID:        n.ID,
		ActorID:   n.ActorID,
		Type:      string(n.Type),
		TargetID:  n.TargetID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func toUserBodies(users []*domain.User) []userBody {
	out := make([]userBody, 0, len(users))
	for _, u := range users {
		out = append(out, toUserBody(u))
	}
	return out
}

func toPostBodies(posts []*domain.Post) []postBody {
	out := make([]postBody, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostBody(p))
	}
	return out
}

func toCommentBodies(comments []*domain.Comment) []commentBody {
	out := make([]commentBody, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentBody(c))
	}
	return out
}

func toNotificationBodies(notifs []*domain.Notification) []notificationBody {
	out := make([]notificationBody, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, toNotificationBody(n))
	}
	return out
}
