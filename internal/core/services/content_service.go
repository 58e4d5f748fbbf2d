package services

import (
	"context"
	"errors"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

// contentService orchestre le CRUD des ressources possédées. Le guard
// Authorize est consulté avant toute écriture ; les lectures passent
// par le moteur de requête, jamais par du filtrage ad hoc.
type contentService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	likes    ports.LikeRepository
	broker   ports.EventPublisher
}

func NewContentService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	likes ports.LikeRepository,
	broker ports.EventPublisher,
) ports.ContentService {
	return &contentService{posts: posts, comments: comments, likes: likes, broker: broker}
}

// --- POSTS ---

func (s *contentService) CreatePost(ctx context.Context, caller domain.Caller, cmd ports.CreatePostCmd) (*domain.Post, error) {
	if err := Authorize(ActionCreate, nil, caller); err != nil {
		return nil, err
	}

	post, err := domain.NewPost(caller.UserID, cmd.Title, cmd.Content)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	_ = s.broker.PublishPostCreated(ctx, post)
	return post, nil
}

func (s *contentService) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, postID)
}

func (s *contentService) ListPosts(ctx context.Context, spec query.Spec) (*query.Page[*domain.Post], error) {
	plan, err := postSchema.Compile(spec)
	if err != nil {
		return nil, err
	}
	posts, total, err := s.posts.List(ctx, plan)
	if err != nil {
		return nil, err
	}
	return query.NewPage(posts, total, plan), nil
}

func (s *contentService) UpdatePost(ctx context.Context, caller domain.Caller, postID string, patch ports.PostPatch) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(ActionUpdate, post, caller); err != nil {
		return nil, err
	}
	if err := post.ApplyPatch(patch.Title, patch.Content); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost supprime le post ; ses commentaires et likes partent par
// cascade du store, pas par logique applicative.
func (s *contentService) DeletePost(ctx context.Context, caller domain.Caller, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := Authorize(ActionDelete, post, caller); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	_ = s.broker.PublishPostDeleted(ctx, postID)
	return nil
}

// --- LIKES ---

func (s *contentService) LikePost(ctx context.Context, caller domain.Caller, postID string) error {
	if err := Authorize(ActionCreate, nil, caller); err != nil {
		return err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return err
	}

	created, err := s.likes.CreateLike(ctx, caller.UserID, postID)
	if err != nil {
		return err
	}
	if created {
		_ = s.broker.PublishPostLiked(ctx, caller.UserID, postID)
	}
	return nil
}

func (s *contentService) UnlikePost(ctx context.Context, caller domain.Caller, postID string) error {
	if err := Authorize(ActionCreate, nil, caller); err != nil {
		return err
	}
	return s.likes.DeleteLike(ctx, caller.UserID, postID)
}

// --- COMMENTAIRES ---

func (s *contentService) CreateComment(ctx context.Context, caller domain.Caller, cmd ports.CreateCommentCmd) (*domain.Comment, error) {
	if err := Authorize(ActionCreate, nil, caller); err != nil {
		return nil, err
	}

	// Le post parent doit exister au moment de la création.
	if _, err := s.posts.FindByID(ctx, cmd.PostID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	comment, err := domain.NewComment(caller.UserID, cmd.PostID, cmd.Content)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}

	_ = s.broker.PublishCommentCreated(ctx, comment)
	return comment, nil
}

func (s *contentService) GetComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	return s.comments.FindByID(ctx, commentID)
}

func (s *contentService) ListComments(ctx context.Context, spec query.Spec) (*query.Page[*domain.Comment], error) {
	plan, err := commentSchema.Compile(spec)
	if err != nil {
		return nil, err
	}
	comments, total, err := s.comments.List(ctx, plan)
	if err != nil {
		return nil, err
	}
	return query.NewPage(comments, total, plan), nil
}

func (s *contentService) UpdateComment(ctx context.Context, caller domain.Caller, commentID string, patch ports.CommentPatch) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(ActionUpdate, comment, caller); err != nil {
		return nil, err
	}
	if err := comment.ApplyPatch(patch.Content); err != nil {
		return nil, err
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *contentService) DeleteComment(ctx context.Context, caller domain.Caller, commentID string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := Authorize(ActionDelete, comment, caller); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}
