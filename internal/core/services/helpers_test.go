package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/murmure/internal/adapters/secondary/repository/inmemory"
	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
)

// fakeBroker enregistre les événements publiés, pour vérifier qu'un
// appel idempotent ne republie pas.
type fakeBroker struct {
	mu     sync.Mutex
	events []string
}

func (b *fakeBroker) record(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, name)
	return nil
}

func (b *fakeBroker) count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e == name {
			n++
		}
	}
	return n
}

func (b *fakeBroker) PublishUserRegistered(ctx context.Context, userID, username string) error {
	return b.record("user.registered")
}

func (b *fakeBroker) PublishUserFollowed(ctx context.Context, followerID, followeeID string) error {
	return b.record("user.followed")
}

func (b *fakeBroker) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return b.record("post.created")
}

func (b *fakeBroker) PublishPostDeleted(ctx context.Context, postID string) error {
	return b.record("post.deleted")
}

func (b *fakeBroker) PublishPostLiked(ctx context.Context, userID, postID string) error {
	return b.record("post.liked")
}

func (b *fakeBroker) PublishCommentCreated(ctx context.Context, comment *domain.Comment) error {
	return b.record("comment.created")
}

// fakeHasher évite le coût d'Argon2 dans les tests de service.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokens émet des tokens triviaux "tok:<userID>".
type fakeTokens struct{}

func (fakeTokens) GenerateTokens(user *domain.User) (string, string, error) {
	return "tok:" + user.ID, "ref:" + user.ID, nil
}

func (fakeTokens) Validate(token string) (string, error) {
	if len(token) > 4 && token[:4] == "tok:" {
		return token[4:], nil
	}
	return "", domain.ErrInvalidToken
}

// env câble tous les services sur le store mémoire.
type env struct {
	store         *inmemory.Store
	broker        *fakeBroker
	identity      ports.IdentityService
	graph         ports.GraphService
	content       ports.ContentService
	feed          ports.FeedService
	notifications ports.NotificationService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := inmemory.New()
	broker := &fakeBroker{}

	users := inmemory.NewUserRepo(store)
	posts := inmemory.NewPostRepo(store)
	comments := inmemory.NewCommentRepo(store)
	graphRepo := inmemory.NewGraphRepo(store)
	likes := inmemory.NewLikeRepo(store)
	notifs := inmemory.NewNotificationRepo(store)

	graph := NewGraphService(graphRepo, users, broker)
	return &env{
		store:         store,
		broker:        broker,
		identity:      NewIdentityService(users, fakeHasher{}, fakeTokens{}, broker),
		graph:         graph,
		content:       NewContentService(posts, comments, likes, broker),
		feed:          NewFeedService(graph, posts),
		notifications: NewNotificationService(notifs, posts),
	}
}

// register crée un utilisateur et retourne son Caller.
func (e *env) register(t *testing.T, username string) domain.Caller {
	t.Helper()

	resp, err := e.identity.Register(context.Background(), ports.RegisterCmd{
		Username: username,
		Email:    username + "@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return domain.Caller{UserID: resp.User.ID}
}

// createPost publie un post et attend un court instant distinct pour que
// deux posts successifs n'aient jamais le même created_at.
func (e *env) createPost(t *testing.T, caller domain.Caller, title string) *domain.Post {
	t.Helper()

	post, err := e.content.CreatePost(context.Background(), caller, ports.CreatePostCmd{
		Title:   title,
		Content: "content of " + title,
	})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	return post
}
