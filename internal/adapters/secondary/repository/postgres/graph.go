package postgres

import (
	"context"
	"time"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

type GraphRepo struct {
	s *Store
}

func NewGraphRepo(s *Store) ports.GraphRepository {
	return &GraphRepo{s: s}
}

// CreateRelation s'appuie sur la clé primaire composite : une relation
// déjà présente est absorbée par ON CONFLICT et rapportée created=false.
func (r *GraphRepo) CreateRelation(ctx context.Context, followerID, followeeID string) (bool, error) {
	q := `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`
	tag, err := r.s.db.Exec(ctx, q, followerID, followeeID, time.Now().UTC())
	if err != nil {
		return false, handleError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *GraphRepo) DeleteRelation(ctx context.Context, followerID, followeeID string) error {
	_, err := r.s.db.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	return err
}

func (r *GraphRepo) RelationExists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	if err := r.s.db.QueryRow(ctx, q, followerID, followeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetRelationStatus lit les deux sens en une seule requête.
func (r *GraphRepo) GetRelationStatus(ctx context.Context, userID, otherID string) (*domain.RelationStatus, error) {
	q := `
		SELECT
			EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2),
			EXISTS (SELECT 1 FROM follows WHERE follower_id = $2 AND followee_id = $1)
	`
	var st domain.RelationStatus
	if err := r.s.db.QueryRow(ctx, q, userID, otherID).Scan(&st.IsFollowing, &st.IsFollowedBy); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *GraphRepo) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.s.db.Query(ctx, `SELECT followee_id FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Colonnes des listes d'abonnés : followed_at vient de la relation,
// le reste du profil suivi ou suiveur.
var followCols = map[string]string{
	"id":          "u.id",
	"username":    "u.username",
	"created_at":  "u.created_at",
	"followed_at": "f.created_at",
}

const followSelect = `
	SELECT u.id, u.username, u.email, u.password_hash, u.bio, u.avatar_url, u.created_at, u.updated_at
	FROM follows f
	JOIN users u ON u.id = `

func (r *GraphRepo) Followers(ctx context.Context, userID string, plan *query.Plan) ([]*domain.User, int, error) {
	return r.listRelated(ctx, "f.follower_id", "f.followee_id = ?", userID, plan)
}

func (r *GraphRepo) Following(ctx context.Context, userID string, plan *query.Plan) ([]*domain.User, int, error) {
	return r.listRelated(ctx, "f.followee_id", "f.follower_id = ?", userID, plan)
}

func (r *GraphRepo) listRelated(ctx context.Context, joinCol, cond, userID string, plan *query.Plan) ([]*domain.User, int, error) {
	b := newPlanBuilder(followCols)
	b.Where(cond, userID)
	b.Apply(plan)

	countQ := `SELECT COUNT(*) FROM follows f JOIN users u ON u.id = ` + joinCol + b.WhereSQL()
	var total int
	if err := r.s.db.QueryRow(ctx, countQ, b.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageQ := followSelect + joinCol + b.WhereSQL() + b.OrderSQL(plan) + b.PageSQL(plan)
	rows, err := r.s.db.Query(ctx, pageQ, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
