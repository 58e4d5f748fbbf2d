// Package http est l'adapter primaire REST : il traduit les requêtes en
// appels de ports et la taxonomie d'erreurs du domaine en statuts HTTP.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jupiterclapton/murmure/internal/core/ports"
)

type Server struct {
	identity      ports.IdentityService
	graph         ports.GraphService
	content       ports.ContentService
	feed          ports.FeedService
	notifications ports.NotificationService
}

func NewServer(
	identity ports.IdentityService,
	graph ports.GraphService,
	content ports.ContentService,
	feed ports.FeedService,
	notifications ports.NotificationService,
) *Server {
	return &Server{
		identity:      identity,
		graph:         graph,
		content:       content,
		feed:          feed,
		notifications: notifications,
	}
}

// Router monte toutes les routes. Les lectures sont publiques, le guard
// du core tranche pour les écritures : le middleware d'auth ne bloque
// que les tokens invalides, jamais l'anonymat.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(AuthMiddleware(s.identity))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Post("/auth/register/", s.handleRegister)
	r.Post("/auth/login/", s.handleLogin)
	r.Get("/auth/me/", s.handleMe)
	r.Put("/auth/me/", s.handleUpdateMe)
	r.Post("/auth/me/password/", s.handleChangePassword)

	r.Get("/users/{user}/", s.handleGetUser)
	r.Get("/users/{user}/followers/", s.handleFollowers)
	r.Get("/users/{user}/following/", s.handleFollowing)

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.handleListPosts)
		r.Post("/", s.handleCreatePost)
		r.Get("/{postID}/", s.handleGetPost)
		r.Put("/{postID}/", s.handleUpdatePost)
		r.Patch("/{postID}/", s.handleUpdatePost)
		r.Delete("/{postID}/", s.handleDeletePost)
		r.Get("/{postID}/comments/", s.handlePostComments)
		r.Post("/{postID}/like/", s.handleLikePost)
		r.Post("/{postID}/unlike/", s.handleUnlikePost)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Get("/", s.handleListComments)
		r.Post("/", s.handleCreateComment)
		r.Get("/{commentID}/", s.handleGetComment)
		r.Put("/{commentID}/", s.handleUpdateComment)
		r.Patch("/{commentID}/", s.handleUpdateComment)
		r.Delete("/{commentID}/", s.handleDeleteComment)
	})

	r.Post("/follow/{user}/", s.handleFollow)
	r.Post("/unfollow/{user}/", s.handleUnfollow)
	r.Get("/feed/", s.handleFeed)

	r.Get("/notifications/", s.handleListNotifications)
	r.Post("/notifications/{notificationID}/read/", s.handleMarkNotificationRead)

	return r
}
