package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
)

// Sujets publiés. Contrat implicite avec le consumer de notifications.
const (
	SubjectUserRegistered = "identity.user.registered"
	SubjectUserFollowed   = "graph.user.followed"
	SubjectPostCreated    = "post.created"
	SubjectPostDeleted    = "post.deleted"
	SubjectPostLiked      = "post.liked"
	SubjectCommentCreated = "comment.created"
)

type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) ports.EventPublisher {
	return &NatsPublisher{nc: nc}
}

type UserRegisteredEvent struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type UserFollowedEvent struct {
	FollowerID string `json:"follower_id"`
	FolloweeID string `json:"followee_id"`
}

type PostCreatedEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type PostLikedEvent struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
}

type CommentCreatedEvent struct {
	ID       string `json:"id"`
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
}

func (p *NatsPublisher) PublishUserRegistered(ctx context.Context, userID, username string) error {
	return p.publish(ctx, SubjectUserRegistered, UserRegisteredEvent{UserID: userID, Username: username})
}

func (p *NatsPublisher) PublishUserFollowed(ctx context.Context, followerID, followeeID string) error {
	return p.publish(ctx, SubjectUserFollowed, UserFollowedEvent{FollowerID: followerID, FolloweeID: followeeID})
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return p.publish(ctx, SubjectPostCreated, PostCreatedEvent{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		CreatedAt: post.CreatedAt,
	})
}

func (p *NatsPublisher) PublishPostDeleted(ctx context.Context, postID string) error {
	return p.nc.Publish(SubjectPostDeleted, []byte(postID))
}

func (p *NatsPublisher) PublishPostLiked(ctx context.Context, userID, postID string) error {
	return p.publish(ctx, SubjectPostLiked, PostLikedEvent{UserID: userID, PostID: postID})
}

func (p *NatsPublisher) PublishCommentCreated(ctx context.Context, comment *domain.Comment) error {
	return p.publish(ctx, SubjectCommentCreated, CommentCreatedEvent{
		ID:       comment.ID,
		PostID:   comment.PostID,
		AuthorID: comment.AuthorID,
	})
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	// Injection du TraceID dans les headers NATS : le consumer peut
	// raccrocher son span à la requête HTTP d'origine.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Debug("📢 Publishing event", "subject", subject)

	return p.nc.PublishMsg(msg)
}
