package services

import (
	"context"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

// feedService compose la timeline en modèle pull : la collection de
// posts est restreinte aux auteurs suivis (plus l'appelant lui-même)
// avant de passer par le moteur de requête. Pas d'état propre.
type feedService struct {
	graph ports.GraphService
	posts ports.PostRepository
}

func NewFeedService(graph ports.GraphService, posts ports.PostRepository) ports.FeedService {
	return &feedService{graph: graph, posts: posts}
}

// BuildFeed ordonne par défaut du plus récent au plus ancien ; un autre
// ordre déclaré par le schema peut être demandé explicitement. Un
// utilisateur qui ne suit personne voit ses propres posts uniquement.
func (s *feedService) BuildFeed(ctx context.Context, caller domain.Caller, spec query.Spec) (*query.Page[*domain.Post], error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}

	following, err := s.graph.FollowingIDs(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	authors := append(following, caller.UserID)

	plan, err := feedSchema.Compile(spec)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.posts.ListByAuthors(ctx, authors, plan)
	if err != nil {
		return nil, err
	}
	return query.NewPage(posts, total, plan), nil
}
