// Package postgres implémente les ports de persistance sur pgx/v5.
// Toute erreur driver est traduite en erreur du domaine à la frontière.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/murmure/internal/core/domain"
)

type Store struct {
	db *pgxpool.Pool
}

// New attend un pool déjà configuré (tracer otelpgx compris) par main.
func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// EnsureSchema crée tables, contraintes et index (idempotent).
// C'est ici que vivent les garanties que l'application ne code pas :
// unicité de l'arête de suivi par paire ordonnée, interdiction du
// self-follow, cascade post -> commentaires/likes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			bio           TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id         UUID PRIMARY KEY,
			author_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_author_created
			ON posts (author_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         UUID PRIMARY KEY,
			post_id    UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			author_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post_created
			ON comments (post_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS follows (
			follower_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			followee_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at  TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (follower_id, followee_id),
			CHECK (follower_id <> followee_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_follows_followee
			ON follows (followee_id)`,
		`CREATE TABLE IF NOT EXISTS likes (
			user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id    UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, post_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id           UUID PRIMARY KEY,
			recipient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			actor_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type         TEXT NOT NULL,
			target_id    TEXT NOT NULL DEFAULT '',
			is_read      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_recipient_created
			ON notifications (recipient_id, created_at DESC)`,
	}

	for _, q := range ddl {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// handleError traduit les codes PostgreSQL en erreurs du domaine.
func handleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique violation, 23503 = foreign key violation,
		// 22P02 = id syntaxiquement invalide (la ressource n'existe pas)
		switch pgErr.Code {
		case "23505":
			return domain.ErrAlreadyExists
		case "23503", "22P02":
			return domain.ErrNotFound
		}
	}
	return err
}
