package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
)

type UserRepo struct {
	s *Store
}

func NewUserRepo(s *Store) ports.UserRepository {
	return &UserRepo{s: s}
}

const userColumns = `id, username, email, password_hash, bio, avatar_url, created_at, updated_at`

func (r *UserRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (id, username, email, password_hash, bio, avatar_url, created_at, updated_at)
		VALUES (@id, @username, @email, @password_hash, @bio, @avatar_url, @created_at, @updated_at)
	`
	args := pgx.NamedArgs{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"bio":           user.Bio,
		"avatar_url":    user.AvatarURL,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}

	if _, err := r.s.db.Exec(ctx, q, args); err != nil {
		if errors.Is(handleError(err), domain.ErrAlreadyExists) {
			return domain.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.s.db.QueryRow(ctx, q, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	return scanUser(r.s.db.QueryRow(ctx, q, email))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.s.db.QueryRow(ctx, q, username))
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	q := `
		UPDATE users
		SET email = @email, bio = @bio, avatar_url = @avatar_url,
		    password_hash = @password_hash, updated_at = @updated_at
		WHERE id = @id
	`
	args := pgx.NamedArgs{
		"id":            user.ID,
		"email":         user.Email,
		"bio":           user.Bio,
		"avatar_url":    user.AvatarURL,
		"password_hash": user.PasswordHash,
		"updated_at":    user.UpdatedAt,
	}

	tag, err := r.s.db.Exec(ctx, q, args)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		if derr := handleError(err); derr != err {
			return nil, derr
		}
		return nil, fmt.Errorf("db: scan user: %w", err)
	}
	return &u, nil
}
