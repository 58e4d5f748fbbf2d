package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

func TestNotifications_FollowCreatesOne(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.register(t, "alice")
	bob := e.register(t, "bob")

	require.NoError(t, e.notifications.NotifyFollow(ctx, alice.UserID, bob.UserID))

	page, err := e.notifications.List(ctx, bob, query.Spec{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, domain.NotificationFollow, page.Items[0].Type)
	assert.Equal(t, alice.UserID, page.Items[0].ActorID)
	assert.False(t, page.Items[0].IsRead)
}

func TestNotifications_LikeGoesToPostAuthor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	post := e.createPost(t, alice, "Hi")

	require.NoError(t, e.notifications.NotifyLike(ctx, bob.UserID, post.ID))

	page, err := e.notifications.List(ctx, alice, query.Spec{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, domain.NotificationLike, page.Items[0].Type)
	assert.Equal(t, post.ID, page.Items[0].TargetID)
}

func TestNotifications_SelfActionsIgnored(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.register(t, "alice")
	post := e.createPost(t, alice, "Hi")

	// Liker ou commenter son propre post ne notifie pas.
	require.NoError(t, e.notifications.NotifyLike(ctx, alice.UserID, post.ID))
	require.NoError(t, e.notifications.NotifyComment(ctx, alice.UserID, post.ID, "c-1"))
	require.NoError(t, e.notifications.NotifyFollow(ctx, alice.UserID, alice.UserID))

	page, err := e.notifications.List(ctx, alice, query.Spec{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestNotifications_MissingPostIgnored(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	bob := e.register(t, "bob")

	// Le post a pu être supprimé entre l'événement et sa consommation.
	assert.NoError(t, e.notifications.NotifyLike(ctx, bob.UserID, "gone"))
}

func TestNotifications_ListRequiresIdentity(t *testing.T) {
	e := newEnv(t)

	_, err := e.notifications.List(context.Background(), domain.Caller{}, query.Spec{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestNotifications_UnreadFilterAndMarkRead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	carol := e.register(t, "carol")

	require.NoError(t, e.notifications.NotifyFollow(ctx, bob.UserID, alice.UserID))
	require.NoError(t, e.notifications.NotifyFollow(ctx, carol.UserID, alice.UserID))

	page, err := e.notifications.List(ctx, alice, query.Spec{Filters: map[string]string{"unread": "true"}})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	require.NoError(t, e.notifications.MarkRead(ctx, alice, page.Items[0].ID))

	page, err = e.notifications.List(ctx, alice, query.Spec{Filters: map[string]string{"unread": "true"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestNotifications_MarkReadOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.register(t, "alice")
	bob := e.register(t, "bob")

	require.NoError(t, e.notifications.NotifyFollow(ctx, bob.UserID, alice.UserID))

	page, err := e.notifications.List(ctx, alice, query.Spec{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	// bob ne marque pas les notifications d'alice.
	err = e.notifications.MarkRead(ctx, bob, page.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
