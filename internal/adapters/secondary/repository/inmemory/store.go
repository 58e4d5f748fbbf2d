// Package inmemory implémente tous les ports de persistance en mémoire,
// avec la même sémantique que l'adapter Postgres (unicité, cascade,
// traduction en erreurs du domaine). Utilisé par les tests et le mode
// local sans infrastructure.
package inmemory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

type Store struct {
	mu            sync.RWMutex
	users         map[string]*domain.User
	posts         map[string]*domain.Post
	comments      map[string]*domain.Comment
	relations     map[string]map[string]time.Time // follower -> followee -> date de l'arête
	likes         map[string]map[string]struct{}  // post -> users
	notifications map[string]*domain.Notification
}

func New() *Store {
	return &Store{
		users:         make(map[string]*domain.User),
		posts:         make(map[string]*domain.Post),
		comments:      make(map[string]*domain.Comment),
		relations:     make(map[string]map[string]time.Time),
		likes:         make(map[string]map[string]struct{}),
		notifications: make(map[string]*domain.Notification),
	}
}

// === Users ===

func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Même garantie que la contrainte UNIQUE côté Postgres.
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// === Posts ===

func (s *Store) SavePost(ctx context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *Store) FindPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[postID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.hydratePost(p), nil
}

func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

// DeletePost émule la cascade du store : commentaires et likes du post
// partent avec lui.
func (s *Store) DeletePost(ctx context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.posts, postID)
	delete(s.likes, postID)
	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
		}
	}
	return nil
}

func (s *Store) ListPosts(ctx context.Context, plan *query.Plan) ([]*domain.Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPostsLocked(nil, plan)
}

func (s *Store) ListPostsByAuthors(ctx context.Context, authorIDs []string, plan *query.Plan) ([]*domain.Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed := make(map[string]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		allowed[id] = struct{}{}
	}
	return s.listPostsLocked(allowed, plan)
}

func (s *Store) listPostsLocked(authors map[string]struct{}, plan *query.Plan) ([]*domain.Post, int, error) {
	rows := make([]postRow, 0, len(s.posts))
	for _, p := range s.posts {
		if authors != nil {
			if _, ok := authors[p.AuthorID]; !ok {
				continue
			}
		}
		username := ""
		if u, ok := s.users[p.AuthorID]; ok {
			username = u.Username
		}
		rows = append(rows, postRow{post: p, author: username})
	}

	paged, total := query.Apply(rows, plan)
	out := make([]*domain.Post, len(paged))
	for i, r := range paged {
		out[i] = s.hydratePost(r.post)
	}
	return out, total, nil
}

func (s *Store) hydratePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.LikeCount = int64(len(s.likes[p.ID]))
	return &cp
}

// === Commentaires ===

func (s *Store) SaveComment(ctx context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return domain.ErrNotFound
	}
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *Store) FindCommentByID(ctx context.Context, commentID string) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[commentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) UpdateComment(ctx context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[comment.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.comments, commentID)
	return nil
}

func (s *Store) ListComments(ctx context.Context, plan *query.Plan) ([]*domain.Comment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]commentRow, 0, len(s.comments))
	for _, c := range s.comments {
		rows = append(rows, commentRow{comment: c})
	}

	paged, total := query.Apply(rows, plan)
	out := make([]*domain.Comment, len(paged))
	for i, r := range paged {
		cp := *r.comment
		out[i] = &cp
	}
	return out, total, nil
}

// === Graphe ===

func (s *Store) CreateRelation(ctx context.Context, followerID, followeeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edges, ok := s.relations[followerID]
	if !ok {
		edges = make(map[string]time.Time)
		s.relations[followerID] = edges
	}
	if _, exists := edges[followeeID]; exists {
		return false, nil
	}
	edges[followeeID] = time.Now().UTC()
	return true, nil
}

func (s *Store) DeleteRelation(ctx context.Context, followerID, followeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.relations[followerID], followeeID)
	return nil
}

func (s *Store) RelationExists(ctx context.Context, followerID, followeeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.relations[followerID][followeeID]
	return ok, nil
}

func (s *Store) GetRelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, following := s.relations[actorID][targetID]
	_, followedBy := s.relations[targetID][actorID]
	return &domain.RelationStatus{IsFollowing: following, IsFollowedBy: followedBy}, nil
}

func (s *Store) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.relations[userID]))
	for id := range s.relations[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) Followers(ctx context.Context, userID string, plan *query.Plan) ([]*domain.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]userRow, 0)
	for followerID, edges := range s.relations {
		if at, ok := edges[userID]; ok {
			if u, found := s.users[followerID]; found {
				rows = append(rows, userRow{user: u, followedAt: at})
			}
		}
	}
	return applyUserRows(rows, plan)
}

func (s *Store) Following(ctx context.Context, userID string, plan *query.Plan) ([]*domain.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]userRow, 0, len(s.relations[userID]))
	for followeeID, at := range s.relations[userID] {
		if u, found := s.users[followeeID]; found {
			rows = append(rows, userRow{user: u, followedAt: at})
		}
	}
	return applyUserRows(rows, plan)
}

func applyUserRows(rows []userRow, plan *query.Plan) ([]*domain.User, int, error) {
	paged, total := query.Apply(rows, plan)
	out := make([]*domain.User, len(paged))
	for i, r := range paged {
		cp := *r.user
		out[i] = &cp
	}
	return out, total, nil
}

// === Likes ===

func (s *Store) CreateLike(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.likes[postID]
	if !ok {
		set = make(map[string]struct{})
		s.likes[postID] = set
	}
	if _, exists := set[userID]; exists {
		return false, nil
	}
	set[userID] = struct{}{}
	return true, nil
}

func (s *Store) DeleteLike(ctx context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.likes[postID], userID)
	return nil
}

// === Notifications ===

func (s *Store) SaveNotification(ctx context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s *Store) FindNotificationByID(ctx context.Context, id string) (*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *Store) ListNotifications(ctx context.Context, recipientID string, plan *query.Plan) ([]*domain.Notification, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]notificationRow, 0)
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			rows = append(rows, notificationRow{n: n})
		}
	}

	paged, total := query.Apply(rows, plan)
	out := make([]*domain.Notification, len(paged))
	for i, r := range paged {
		cp := *r.n
		out[i] = &cp
	}
	return out, total, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.IsRead = true
	return nil
}
