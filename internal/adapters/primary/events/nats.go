package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jupiterclapton/murmure/internal/core/ports"
)

// EventHandler consomme les événements du domaine et matérialise les
// notifications hors du chemin d'écriture synchrone.
type EventHandler struct {
	notifications ports.NotificationService
}

func NewEventHandler(notifications ports.NotificationService) *EventHandler {
	return &EventHandler{notifications: notifications}
}

// Subscribe branche les handlers sur la connexion NATS.
func (h *EventHandler) Subscribe(nc *nats.Conn) error {
	if _, err := nc.Subscribe("graph.user.followed", h.HandleUserFollowed); err != nil {
		return err
	}
	if _, err := nc.Subscribe("post.liked", h.HandlePostLiked); err != nil {
		return err
	}
	if _, err := nc.Subscribe("comment.created", h.HandleCommentCreated); err != nil {
		return err
	}
	return nil
}

func (h *EventHandler) HandleUserFollowed(msg *nats.Msg) {
	ctx, span := consumerSpan(msg, "process_user_followed")
	defer span.End()

	var event struct {
		FollowerID string `json:"follower_id"`
		FolloweeID string `json:"followee_id"`
	}
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		slog.Error("❌ Invalid event format", "subject", msg.Subject, "error", err)
		return
	}

	h.dispatch(ctx, msg.Subject, func(ctx context.Context) error {
		return h.notifications.NotifyFollow(ctx, event.FollowerID, event.FolloweeID)
	})
}

func (h *EventHandler) HandlePostLiked(msg *nats.Msg) {
	ctx, span := consumerSpan(msg, "process_post_liked")
	defer span.End()

	var event struct {
		UserID string `json:"user_id"`
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		slog.Error("❌ Invalid event format", "subject", msg.Subject, "error", err)
		return
	}

	h.dispatch(ctx, msg.Subject, func(ctx context.Context) error {
		return h.notifications.NotifyLike(ctx, event.UserID, event.PostID)
	})
}

func (h *EventHandler) HandleCommentCreated(msg *nats.Msg) {
	ctx, span := consumerSpan(msg, "process_comment_created")
	defer span.End()

	var event struct {
		ID       string `json:"id"`
		PostID   string `json:"post_id"`
		AuthorID string `json:"author_id"`
	}
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		slog.Error("❌ Invalid event format", "subject", msg.Subject, "error", err)
		return
	}

	h.dispatch(ctx, msg.Subject, func(ctx context.Context) error {
		return h.notifications.NotifyComment(ctx, event.AuthorID, event.PostID, event.ID)
	})
}

// consumerSpan extrait le contexte de trace des headers NATS et ouvre
// un span consumer rattaché à la requête d'origine.
func consumerSpan(msg *nats.Msg, name string) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))
	return otel.Tracer("murmure-events").Start(ctx, name, trace.WithSpanKind(trace.SpanKindConsumer))
}

func (h *EventHandler) dispatch(ctx context.Context, subject string, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil {
			slog.Error("❌ Notification dispatch failed", "subject", subject, "error", err)
		}
	}()
}
