package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

func newTestStore(t *testing.T) (*Store, *domain.User) {
	t.Helper()

	store := New()
	user, err := domain.NewUser("alice", "alice@example.com", "hash", "")
	require.NoError(t, err)
	require.NoError(t, store.SaveUser(context.Background(), user))
	return store, user
}

func listPlan(t *testing.T) *query.Plan {
	t.Helper()

	plan, err := query.Schema{
		OrderFields:     []string{"created_at"},
		DefaultOrdering: "created_at",
		DefaultPageSize: 50,
		MaxPageSize:     100,
	}.Compile(query.Spec{})
	require.NoError(t, err)
	return plan
}

func TestStore_UserUniqueness(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	dupEmail, err := domain.NewUser("other", "ALICE@example.com", "hash", "")
	require.NoError(t, err)
	assert.ErrorIs(t, store.SaveUser(ctx, dupEmail), domain.ErrEmailAlreadyExists)

	dupUsername, err := domain.NewUser("alice", "alice2@example.com", "hash", "")
	require.NoError(t, err)
	assert.Error(t, store.SaveUser(ctx, dupUsername))
}

func TestStore_CopyOnReadIsolation(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)

	// Muter la copie retournée ne touche pas le store.
	got.Username = "mutated"

	again, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
}

func TestStore_DeletePostCascade(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := domain.NewPost(user.ID, "Hi", "content")
	require.NoError(t, err)
	require.NoError(t, store.SavePost(ctx, post))

	comment, err := domain.NewComment(user.ID, post.ID, "first!")
	require.NoError(t, err)
	require.NoError(t, store.SaveComment(ctx, comment))

	created, err := store.CreateLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, store.DeletePost(ctx, post.ID))

	_, err = store.FindPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.FindCommentByID(ctx, comment.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CommentRequiresPost(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	comment, err := domain.NewComment(user.ID, "missing-post", "hello")
	require.NoError(t, err)
	assert.ErrorIs(t, store.SaveComment(ctx, comment), domain.ErrNotFound)
}

func TestStore_LikeCountHydration(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := domain.NewPost(user.ID, "Hi", "content")
	require.NoError(t, err)
	require.NoError(t, store.SavePost(ctx, post))

	created, err := store.CreateLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// Le doublon est absorbé.
	created, err = store.CreateLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := store.FindPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikeCount)

	require.NoError(t, store.DeleteLike(ctx, user.ID, post.ID))
	got, err = store.FindPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.LikeCount)
}

func TestStore_RelationEdges(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	bob, err := domain.NewUser("bob", "bob@example.com", "hash", "")
	require.NoError(t, err)
	require.NoError(t, store.SaveUser(ctx, bob))

	created, err := store.CreateRelation(ctx, user.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.CreateRelation(ctx, user.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created, "l'arête existante est absorbée")

	ids, err := store.FollowingIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, ids)

	require.NoError(t, store.DeleteRelation(ctx, user.ID, bob.ID))

	exists, err := store.RelationExists(ctx, user.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_ListPostsByAuthorsRestricts(t *testing.T) {
	store, alice := newTestStore(t)
	ctx := context.Background()

	bob, err := domain.NewUser("bob", "bob@example.com", "hash", "")
	require.NoError(t, err)
	require.NoError(t, store.SaveUser(ctx, bob))

	for _, author := range []string{alice.ID, bob.ID, bob.ID} {
		post, err := domain.NewPost(author, "t", "c")
		require.NoError(t, err)
		require.NoError(t, store.SavePost(ctx, post))
	}

	posts, total, err := store.ListPostsByAuthors(ctx, []string{bob.ID}, listPlan(t))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, p := range posts {
		assert.Equal(t, bob.ID, p.AuthorID)
	}
}
