package services

import (
	"context"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

// notificationService écrit les notifications hors du chemin synchrone
// (il est appelé par le consommateur d'événements NATS) et les sert via
// le moteur de requête.
type notificationService struct {
	repo  ports.NotificationRepository
	posts ports.PostRepository
}

func NewNotificationService(repo ports.NotificationRepository, posts ports.PostRepository) ports.NotificationService {
	return &notificationService{repo: repo, posts: posts}
}

func (s *notificationService) NotifyFollow(ctx context.Context, actorID, recipientID string) error {
	if actorID == recipientID {
		return nil
	}
	return s.repo.Save(ctx, domain.NewNotification(recipientID, actorID, domain.NotificationFollow, ""))
}

// NotifyLike prévient l'auteur du post ; liker son propre post ne
// produit rien.
func (s *notificationService) NotifyLike(ctx context.Context, actorID, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		// Le post a pu disparaître entre l'événement et sa consommation.
		return nil
	}
	if post.AuthorID == actorID {
		return nil
	}
	return s.repo.Save(ctx, domain.NewNotification(post.AuthorID, actorID, domain.NotificationLike, postID))
}

func (s *notificationService) NotifyComment(ctx context.Context, actorID, postID, commentID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil
	}
	if post.AuthorID == actorID {
		return nil
	}
	return s.repo.Save(ctx, domain.NewNotification(post.AuthorID, actorID, domain.NotificationComment, commentID))
}

func (s *notificationService) List(ctx context.Context, caller domain.Caller, spec query.Spec) (*query.Page[*domain.Notification], error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}
	plan, err := notificationSchema.Compile(spec)
	if err != nil {
		return nil, err
	}
	items, total, err := s.repo.List(ctx, caller.UserID, plan)
	if err != nil {
		return nil, err
	}
	return query.NewPage(items, total, plan), nil
}

func (s *notificationService) MarkRead(ctx context.Context, caller domain.Caller, notificationID string) error {
	if caller.Anonymous() {
		return domain.ErrUnauthenticated
	}
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != caller.UserID {
		return domain.ErrForbidden
	}
	return s.repo.MarkRead(ctx, notificationID)
}
