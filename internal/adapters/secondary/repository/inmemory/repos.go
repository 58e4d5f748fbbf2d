package inmemory

import (
	"context"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

// Vues par port sur le Store partagé : chaque repository du cœur est un
// adaptateur mince au-dessus du même état.

type UserRepo struct{ s *Store }

func NewUserRepo(s *Store) ports.UserRepository { return &UserRepo{s: s} }

func (r *UserRepo) Save(ctx context.Context, u *domain.User) error { return r.s.SaveUser(ctx, u) }
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.s.GetUserByID(ctx, id)
}
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.s.GetUserByEmail(ctx, email)
}
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.s.GetUserByUsername(ctx, username)
}
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error { return r.s.UpdateUser(ctx, u) }

type PostRepo struct{ s *Store }

func NewPostRepo(s *Store) ports.PostRepository { return &PostRepo{s: s} }

func (r *PostRepo) Save(ctx context.Context, p *domain.Post) error { return r.s.SavePost(ctx, p) }
func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.s.FindPostByID(ctx, id)
}
func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error { return r.s.UpdatePost(ctx, p) }
func (r *PostRepo) Delete(ctx context.Context, id string) error     { return r.s.DeletePost(ctx, id) }
func (r *PostRepo) List(ctx context.Context, plan *query.Plan) ([]*domain.Post, int, error) {
	return r.s.ListPosts(ctx, plan)
}
func (r *PostRepo) ListByAuthors(ctx context.Context, authorIDs []string, plan *query.Plan) ([]*domain.Post, int, error) {
	return r.s.ListPostsByAuthors(ctx, authorIDs, plan)
}

type CommentRepo struct{ s *Store }

func NewCommentRepo(s *Store) ports.CommentRepository { return &CommentRepo{s: s} }

func (r *CommentRepo) Save(ctx context.Context, c *domain.Comment) error {
	return r.s.SaveComment(ctx, c)
}
func (r *CommentRepo) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	return r.s.FindCommentByID(ctx, id)
}
func (r *CommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	return r.s.UpdateComment(ctx, c)
}
func (r *CommentRepo) Delete(ctx context.Context, id string) error { return r.s.DeleteComment(ctx, id) }
func (r *CommentRepo) List(ctx context.Context, plan *query.Plan) ([]*domain.Comment, int, error) {
	return r.s.ListComments(ctx, plan)
}

type GraphRepo struct{ s *Store }

func NewGraphRepo(s *Store) ports.GraphRepository { return &GraphRepo{s: s} }

func (r *GraphRepo) CreateRelation(ctx context.Context, followerID, followeeID string) (bool, error) {
	return r.s.CreateRelation(ctx, followerID, followeeID)
}
func (r *GraphRepo) DeleteRelation(ctx context.Context, followerID, followeeID string) error {
	return r.s.DeleteRelation(ctx, followerID, followeeID)
}
func (r *GraphRepo) RelationExists(ctx context.Context, followerID, followeeID string) (bool, error) {
	return r.s.RelationExists(ctx, followerID, followeeID)
}
func (r *GraphRepo) GetRelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	return r.s.GetRelationStatus(ctx, actorID, targetID)
}
func (r *GraphRepo) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.s.FollowingIDs(ctx, userID)
}
func (r *GraphRepo) Followers(ctx context.Context, userID string, plan *query.Plan) ([]*domain.User, int, error) {
	return r.s.Followers(ctx, userID, plan)
}
func (r *GraphRepo) Following(ctx context.Context, userID string, plan *query.Plan) ([]*domain.User, int, error) {
	return r.s.Following(ctx, userID, plan)
}

type LikeRepo struct{ s *Store }

func NewLikeRepo(s *Store) ports.LikeRepository { return &LikeRepo{s: s} }

func (r *LikeRepo) CreateLike(ctx context.Context, userID, postID string) (bool, error) {
	return r.s.CreateLike(ctx, userID, postID)
}
func (r *LikeRepo) DeleteLike(ctx context.Context, userID, postID string) error {
	return r.s.DeleteLike(ctx, userID, postID)
}

type NotificationRepo struct{ s *Store }

func NewNotificationRepo(s *Store) ports.NotificationRepository { return &NotificationRepo{s: s} }

func (r *NotificationRepo) Save(ctx context.Context, n *domain.Notification) error {
	return r.s.SaveNotification(ctx, n)
}
func (r *NotificationRepo) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	return r.s.FindNotificationByID(ctx, id)
}
func (r *NotificationRepo) List(ctx context.Context, recipientID string, plan *query.Plan) ([]*domain.Notification, int, error) {
	return r.s.ListNotifications(ctx, recipientID, plan)
}
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	return r.s.MarkNotificationRead(ctx, id)
}
