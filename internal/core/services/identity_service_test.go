package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
)

func TestIdentity_RegisterThenLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.identity.Register(ctx, ports.RegisterCmd{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Bio:      "gopher",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, 1, e.broker.count("user.registered"))

	login, err := e.identity.Login(ctx, ports.LoginCmd{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = e.identity.Login(ctx, ports.LoginCmd{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestIdentity_RegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.register(t, "alice")

	_, err := e.identity.Register(ctx, ports.RegisterCmd{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestIdentity_RegisterValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var vErr *domain.ValidationError

	_, err := e.identity.Register(ctx, ports.RegisterCmd{
		Username: "al",
		Email:    "al@example.com",
		Password: "s3cret-pass",
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "username", vErr.Field)

	_, err = e.identity.Register(ctx, ports.RegisterCmd{
		Username: "alice",
		Email:    "not-an-email",
		Password: "s3cret-pass",
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)

	_, err = e.identity.Register(ctx, ports.RegisterCmd{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)
}

func TestIdentity_ValidateToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.identity.Register(ctx, ports.RegisterCmd{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	userID, err := e.identity.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	_, err = e.identity.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestIdentity_UpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.register(t, "alice")

	bio := "updated bio"
	user, err := e.identity.UpdateProfile(ctx, alice, ports.UpdateProfileCmd{
		UserID: alice.UserID,
		Bio:    &bio,
	})
	require.NoError(t, err)
	assert.Equal(t, "updated bio", user.Bio)

	// On ne modifie pas le profil d'un autre.
	bob := e.register(t, "bob")
	_, err = e.identity.UpdateProfile(ctx, bob, ports.UpdateProfileCmd{
		UserID: alice.UserID,
		Bio:    &bio,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestIdentity_ChangePassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.register(t, "alice")

	require.NoError(t, e.identity.ChangePassword(ctx, alice, "s3cret-pass", "n3w-s3cret-pass"))

	// L'ancien mot de passe ne passe plus, le nouveau oui.
	_, err := e.identity.Login(ctx, ports.LoginCmd{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = e.identity.Login(ctx, ports.LoginCmd{
		Email:    "alice@example.com",
		Password: "n3w-s3cret-pass",
	})
	assert.NoError(t, err)
}

func TestIdentity_ChangePasswordGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice := e.register(t, "alice")

	err := e.identity.ChangePassword(ctx, domain.Caller{}, "s3cret-pass", "n3w-s3cret-pass")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	err = e.identity.ChangePassword(ctx, alice, "wrong-old", "n3w-s3cret-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	var vErr *domain.ValidationError
	err = e.identity.ChangePassword(ctx, alice, "s3cret-pass", "short")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)
}

func TestIdentity_GetUserByUsername(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.register(t, "alice")

	user, err := e.identity.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = e.identity.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
