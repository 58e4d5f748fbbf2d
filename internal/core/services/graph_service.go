package services

import (
	"context"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

type graphService struct {
	graph  ports.GraphRepository
	users  ports.UserRepository
	broker ports.EventPublisher
}

func NewGraphService(graph ports.GraphRepository, users ports.UserRepository, broker ports.EventPublisher) ports.GraphService {
	return &graphService{graph: graph, users: users, broker: broker}
}

// Follow crée l'arête (caller -> followee). Idempotent : si l'arête
// existe déjà, la contrainte d'unicité du store absorbe le doublon et
// l'appel réussit sans republier d'événement. Deux Follow simultanés de
// la même paire sont donc sûrs sans coordination applicative.
func (s *graphService) Follow(ctx context.Context, caller domain.Caller, followeeID string) error {
	if caller.Anonymous() {
		return domain.ErrUnauthenticated
	}
	if caller.UserID == followeeID {
		return domain.ErrSelfFollow
	}
	if _, err := s.users.GetByID(ctx, followeeID); err != nil {
		return domain.ErrUserNotFound
	}

	created, err := s.graph.CreateRelation(ctx, caller.UserID, followeeID)
	if err != nil {
		return err
	}
	if created {
		_ = s.broker.PublishUserFollowed(ctx, caller.UserID, followeeID)
	}
	return nil
}

// Unfollow supprime l'arête si elle existe ; sinon no-op, succès.
func (s *graphService) Unfollow(ctx context.Context, caller domain.Caller, followeeID string) error {
	if caller.Anonymous() {
		return domain.ErrUnauthenticated
	}
	return s.graph.DeleteRelation(ctx, caller.UserID, followeeID)
}

func (s *graphService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.graph.RelationExists(ctx, followerID, followeeID)
}

func (s *graphService) CheckRelation(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	return s.graph.GetRelationStatus(ctx, actorID, targetID)
}

func (s *graphService) Followers(ctx context.Context, userID string, spec query.Spec) (*query.Page[*domain.User], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, domain.ErrUserNotFound
	}
	plan, err := followListSchema.Compile(spec)
	if err != nil {
		return nil, err
	}
	users, total, err := s.graph.Followers(ctx, userID, plan)
	if err != nil {
		return nil, err
	}
	return query.NewPage(users, total, plan), nil
}

func (s *graphService) Following(ctx context.Context, userID string, spec query.Spec) (*query.Page[*domain.User], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, domain.ErrUserNotFound
	}
	plan, err := followListSchema.Compile(spec)
	if err != nil {
		return nil, err
	}
	users, total, err := s.graph.Following(ctx, userID, plan)
	if err != nil {
		return nil, err
	}
	return query.NewPage(users, total, plan), nil
}

func (s *graphService) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return s.graph.FollowingIDs(ctx, userID)
}
