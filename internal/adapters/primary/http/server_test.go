package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/murmure/internal/adapters/secondary/repository/inmemory"
	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/services"
)

// Doubles de sécurité : les tests HTTP vérifient le transport, pas
// Argon2 ni RS256.

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateTokens(user *domain.User) (string, string, error) {
	return "tok:" + user.ID, "ref:" + user.ID, nil
}

func (fakeTokens) Validate(token string) (string, error) {
	if strings.HasPrefix(token, "tok:") {
		return strings.TrimPrefix(token, "tok:"), nil
	}
	return "", domain.ErrInvalidToken
}

// nopPublisher coupe NATS des tests de transport.
type nopPublisher struct{}

func (nopPublisher) PublishUserRegistered(context.Context, string, string) error { return nil }
func (nopPublisher) PublishUserFollowed(context.Context, string, string) error   { return nil }
func (nopPublisher) PublishPostCreated(context.Context, *domain.Post) error      { return nil }
func (nopPublisher) PublishPostDeleted(context.Context, string) error            { return nil }
func (nopPublisher) PublishPostLiked(context.Context, string, string) error      { return nil }
func (nopPublisher) PublishCommentCreated(context.Context, *domain.Comment) error {
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := inmemory.New()
	broker := nopPublisher{}

	users := inmemory.NewUserRepo(store)
	posts := inmemory.NewPostRepo(store)
	comments := inmemory.NewCommentRepo(store)
	graphRepo := inmemory.NewGraphRepo(store)
	likes := inmemory.NewLikeRepo(store)
	notifs := inmemory.NewNotificationRepo(store)

	identity := services.NewIdentityService(users, fakeHasher{}, fakeTokens{}, broker)
	graph := services.NewGraphService(graphRepo, users, broker)
	content := services.NewContentService(posts, comments, likes, broker)
	feed := services.NewFeedService(graph, posts)
	notifications := services.NewNotificationService(notifs, posts)

	srv := httptest.NewServer(NewServer(identity, graph, content, feed, notifications).Router())
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// registerUser enregistre un utilisateur et retourne un client
// authentifié plus l'ID du compte.
func registerUser(t *testing.T, srv *httptest.Server, username string) (*client, string) {
	t.Helper()

	c := &client{t: t, base: srv.URL}
	resp, body := c.do(http.MethodPost, "/auth/register/", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	c.token = body["access_token"].(string)
	user := body["user"].(map[string]any)
	return c, user["id"].(string)
}

func TestHTTP_RegisterAndMe(t *testing.T) {
	srv := newTestServer(t)
	alice, aliceID := registerUser(t, srv, "alice")

	resp, body := alice.do(http.MethodGet, "/auth/me/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, aliceID, body["id"])
	assert.Equal(t, "alice", body["username"])
}

func TestHTTP_ChangePassword(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := registerUser(t, srv, "alice")

	resp, _ := alice.do(http.MethodPost, "/auth/me/password/", map[string]string{
		"old_password": "s3cret-pass",
		"new_password": "n3w-s3cret-pass",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Le nouveau mot de passe est requis au prochain login.
	anon := &client{t: t, base: srv.URL}
	resp, body := anon.do(http.MethodPost, "/auth/login/", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", body["kind"])

	resp, _ = anon.do(http.MethodPost, "/auth/login/", map[string]string{
		"email":    "alice@example.com",
		"password": "n3w-s3cret-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Mauvais ancien mot de passe : rien ne change.
	resp, _ = alice.do(http.MethodPost, "/auth/me/password/", map[string]string{
		"old_password": "wrong",
		"new_password": "another-pass",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTP_AnonymousCreatePostUnauthenticated(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	resp, body := anon.do(http.MethodPost, "/posts/", map[string]string{
		"title":   "Hi",
		"content": "hello",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", body["kind"])
}

func TestHTTP_InvalidTokenRejected(t *testing.T) {
	srv := newTestServer(t)
	bad := &client{t: t, base: srv.URL, token: "garbage"}

	resp, body := bad.do(http.MethodGet, "/posts/", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", body["kind"])
}

func TestHTTP_PostCrudAndOwnership(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := registerUser(t, srv, "alice")
	bob, _ := registerUser(t, srv, "bob")

	resp, created := alice.do(http.MethodPost, "/posts/", map[string]string{
		"title":   "Hi",
		"content": "hello world",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := created["id"].(string)

	// Lecture publique.
	anon := &client{t: t, base: srv.URL}
	resp, got := anon.do(http.MethodGet, "/posts/"+postID+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hi", got["title"])

	// PATCH par un non-propriétaire.
	resp, body := bob.do(http.MethodPatch, "/posts/"+postID+"/", map[string]string{"title": "Hacked"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", body["kind"])

	// PATCH partiel par le propriétaire.
	resp, updated := alice.do(http.MethodPatch, "/posts/"+postID+"/", map[string]string{"title": "Hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello", updated["title"])
	assert.Equal(t, "hello world", updated["content"])

	// DELETE par le propriétaire, puis 404.
	resp, _ = alice.do(http.MethodDelete, "/posts/"+postID+"/", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = anon.do(http.MethodGet, "/posts/"+postID+"/", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["kind"])
}

func TestHTTP_PostValidation(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := registerUser(t, srv, "alice")

	resp, body := alice.do(http.MethodPost, "/posts/", map[string]string{"content": "no title"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", body["kind"])
}

func TestHTTP_PageEnvelope(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := registerUser(t, srv, "alice")

	for i := 0; i < 12; i++ {
		resp, _ := alice.do(http.MethodPost, "/posts/", map[string]string{
			"title":   fmt.Sprintf("Post %d", i),
			"content": "c",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	anon := &client{t: t, base: srv.URL}
	resp, body := anon.do(http.MethodGet, "/posts/?page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.EqualValues(t, 12, body["total"])
	assert.EqualValues(t, 2, body["page"])
	assert.EqualValues(t, 10, body["page_size"])
	assert.Len(t, body["items"], 2)
}

func TestHTTP_UnknownOrderingIsInvalidQuery(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	resp, body := anon.do(http.MethodGet, "/posts/?ordering=popularity", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_query", body["kind"])
}

func TestHTTP_FollowAndFeedScenario(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := registerUser(t, srv, "alice")
	bob, bobID := registerUser(t, srv, "bob")
	carol, _ := registerUser(t, srv, "carol")

	// alice suit bob ; refaire l'appel reste un succès.
	resp, _ := alice.do(http.MethodPost, "/follow/"+bobID+"/", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = alice.do(http.MethodPost, "/follow/"+bobID+"/", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, created := bob.do(http.MethodPost, "/posts/", map[string]string{"title": "Hi", "content": "c"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, feed := alice.do(http.MethodGet, "/feed/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, feed["total"])
	items := feed["items"].([]any)
	assert.Equal(t, created["id"], items[0].(map[string]any)["id"])

	// carol ne suit personne : feed vide.
	resp, feed = carol.do(http.MethodGet, "/feed/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, feed["total"])

	// Le feed exige une identité.
	anon := &client{t: t, base: srv.URL}
	resp, body := anon.do(http.MethodGet, "/feed/", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", body["kind"])
}

func TestHTTP_SelfFollowRejected(t *testing.T) {
	srv := newTestServer(t)
	alice, aliceID := registerUser(t, srv, "alice")

	resp, body := alice.do(http.MethodPost, "/follow/"+aliceID+"/", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", body["kind"])
}

func TestHTTP_FollowerListings(t *testing.T) {
	srv := newTestServer(t)
	alice, aliceID := registerUser(t, srv, "alice")
	_, bobID := registerUser(t, srv, "bob")

	resp, _ := alice.do(http.MethodPost, "/follow/"+bobID+"/", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	anon := &client{t: t, base: srv.URL}
	resp, body := anon.do(http.MethodGet, "/users/"+aliceID+"/following/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, body["total"])
	items := body["items"].([]any)
	assert.Equal(t, "bob", items[0].(map[string]any)["username"])

	resp, body = anon.do(http.MethodGet, "/users/"+bobID+"/followers/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])
}

func TestHTTP_PostCommentsRoute(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := registerUser(t, srv, "alice")

	resp, post := alice.do(http.MethodPost, "/posts/", map[string]string{"title": "Hi", "content": "c"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := post["id"].(string)

	resp, comment := alice.do(http.MethodPost, "/comments/", map[string]string{
		"post_id": postID,
		"content": "first!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, postID, comment["post_id"])

	anon := &client{t: t, base: srv.URL}
	resp, body := anon.do(http.MethodGet, "/posts/"+postID+"/comments/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	// Commenter un post inexistant.
	resp, body = alice.do(http.MethodPost, "/comments/", map[string]string{
		"post_id": "missing",
		"content": "hello?",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["kind"])
}

func TestHTTP_LikeRoutes(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := registerUser(t, srv, "alice")
	bob, _ := registerUser(t, srv, "bob")

	resp, post := alice.do(http.MethodPost, "/posts/", map[string]string{"title": "Hi", "content": "c"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := post["id"].(string)

	resp, _ = bob.do(http.MethodPost, "/posts/"+postID+"/like/", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	anon := &client{t: t, base: srv.URL}
	resp, got := anon.do(http.MethodGet, "/posts/"+postID+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, got["like_count"])

	resp, _ = bob.do(http.MethodPost, "/posts/"+postID+"/unlike/", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, got = anon.do(http.MethodGet, "/posts/"+postID+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, got["like_count"])
}

func TestHTTP_PublicProfileByUsername(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice")

	anon := &client{t: t, base: srv.URL}
	resp, body := anon.do(http.MethodGet, "/users/alice/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])

	resp, body = anon.do(http.MethodGet, "/users/nobody/", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["kind"])
}

func TestHTTP_SearchAndFilterParams(t *testing.T) {
	srv := newTestServer(t)
	alice, _ := registerUser(t, srv, "alice")
	bob, _ := registerUser(t, srv, "bob")

	for c, titles := range map[*client][]string{
		alice: {"Go concurrency", "Cooking"},
		bob:   {"Go generics"},
	} {
		for _, title := range titles {
			resp, _ := c.do(http.MethodPost, "/posts/", map[string]string{"title": title, "content": "c"})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}
	}

	anon := &client{t: t, base: srv.URL}

	resp, body := anon.do(http.MethodGet, "/posts/?search=go", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["total"])

	resp, body = anon.do(http.MethodGet, "/posts/?author=bob", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	// Clé de filtre inconnue : ignorée, pas une erreur.
	resp, body = anon.do(http.MethodGet, "/posts/?bogus=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["total"])
}
