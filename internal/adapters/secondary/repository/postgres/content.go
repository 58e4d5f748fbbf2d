package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

// --- POSTS ---

type PostRepo struct {
	s *Store
}

func NewPostRepo(s *Store) ports.PostRepository {
	return &PostRepo{s: s}
}

// Expressions SQL des champs admis par le schema des posts. Le JOIN sur
// users sert le filtre et la recherche par username de l'auteur.
var postCols = map[string]string{
	"id":         "p.id",
	"title":      "p.title",
	"content":    "p.content",
	"author_id":  "p.author_id",
	"author":     "u.username",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
}

const postSelect = `
	SELECT p.id, p.author_id, p.title, p.content, p.created_at, p.updated_at,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count
	FROM posts p
	JOIN users u ON u.id = p.author_id`

const postCount = `
	SELECT COUNT(*)
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func (r *PostRepo) Save(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (id, author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.s.db.Exec(ctx, q, post.ID, post.AuthorID, post.Title, post.Content, post.CreatedAt, post.UpdatedAt)
	return handleError(err)
}

func (r *PostRepo) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	row := r.s.db.QueryRow(ctx, postSelect+` WHERE p.id = $1`, postID)
	return scanPost(row)
}

func (r *PostRepo) Update(ctx context.Context, post *domain.Post) error {
	q := `UPDATE posts SET title = $1, content = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.s.db.Exec(ctx, q, post.Title, post.Content, post.UpdatedAt, post.ID)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete laisse la cascade du store emporter commentaires et likes.
func (r *PostRepo) Delete(ctx context.Context, postID string) error {
	_, err := r.s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	return err
}

func (r *PostRepo) List(ctx context.Context, plan *query.Plan) ([]*domain.Post, int, error) {
	return r.list(ctx, nil, plan)
}

func (r *PostRepo) ListByAuthors(ctx context.Context, authorIDs []string, plan *query.Plan) ([]*domain.Post, int, error) {
	if len(authorIDs) == 0 {
		return []*domain.Post{}, 0, nil
	}
	return r.list(ctx, authorIDs, plan)
}

func (r *PostRepo) list(ctx context.Context, authorIDs []string, plan *query.Plan) ([]*domain.Post, int, error) {
	b := newPlanBuilder(postCols)
	if authorIDs != nil {
		b.Where("p.author_id = ANY(?)", authorIDs)
	}
	b.Apply(plan)

	// Total sur l'ensemble filtré non paginé, puis la page.
	var total int
	if err := r.s.db.QueryRow(ctx, postCount+b.WhereSQL(), b.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.s.db.Query(ctx, postSelect+b.WhereSQL()+b.OrderSQL(plan)+b.PageSQL(plan), b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt, &p.LikeCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if derr := handleError(err); derr != err {
			return nil, derr
		}
		return nil, fmt.Errorf("db: scan post: %w", err)
	}
	return &p, nil
}

// --- COMMENTAIRES ---

type CommentRepo struct {
	s *Store
}

func NewCommentRepo(s *Store) ports.CommentRepository {
	return &CommentRepo{s: s}
}

var commentCols = map[string]string{
	"id":         "c.id",
	"post_id":    "c.post_id",
	"author_id":  "c.author_id",
	"content":    "c.content",
	"created_at": "c.created_at",
	"updated_at": "c.updated_at",
}

const commentSelect = `SELECT c.id, c.post_id, c.author_id, c.content, c.created_at, c.updated_at FROM comments c`

func (r *CommentRepo) Save(ctx context.Context, comment *domain.Comment) error {
	q := `
		INSERT INTO comments (id, post_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.s.db.Exec(ctx, q, comment.ID, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt, comment.UpdatedAt)
	return handleError(err)
}

func (r *CommentRepo) FindByID(ctx context.Context, commentID string) (*domain.Comment, error) {
	row := r.s.db.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, commentID)
	return scanComment(row)
}

func (r *CommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	q := `UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`
	tag, err := r.s.db.Exec(ctx, q, comment.Content, comment.UpdatedAt, comment.ID)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, commentID string) error {
	_, err := r.s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	return err
}

func (r *CommentRepo) List(ctx context.Context, plan *query.Plan) ([]*domain.Comment, int, error) {
	b := newPlanBuilder(commentCols).Apply(plan)

	var total int
	if err := r.s.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments c`+b.WhereSQL(), b.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.s.db.Query(ctx, commentSelect+b.WhereSQL()+b.OrderSQL(plan)+b.PageSQL(plan), b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	return comments, total, rows.Err()
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if derr := handleError(err); derr != err {
			return nil, derr
		}
		return nil, fmt.Errorf("db: scan comment: %w", err)
	}
	return &c, nil
}

// --- LIKES ---

type LikeRepo struct {
	s *Store
}

func NewLikeRepo(s *Store) ports.LikeRepository {
	return &LikeRepo{s: s}
}

// CreateLike est idempotent par contrainte d'unicité : le doublon est
// absorbé par ON CONFLICT et rapporté created=false.
func (r *LikeRepo) CreateLike(ctx context.Context, userID, postID string) (bool, error) {
	q := `
		INSERT INTO likes (user_id, post_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`
	tag, err := r.s.db.Exec(ctx, q, userID, postID, time.Now().UTC())
	if err != nil {
		return false, handleError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LikeRepo) DeleteLike(ctx context.Context, userID, postID string) error {
	_, err := r.s.db.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	return err
}
