package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxTitleLength   = 255
	maxContentLength = 10000
)

// Post est une publication possédée par exactement un auteur.
// Immutable pour tout le monde sauf son auteur.
type Post struct {
	ID        string
	AuthorID  string
	Title     string
	Content   string
	LikeCount int64 // hydraté en lecture, jamais écrit directement
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Post) OwnerID() string { return p.AuthorID }

// NewPost valide et construit un post, horodaté et identifié ici.
func NewPost(authorID, title, content string) (*Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" {
		return nil, Invalid("title", "cannot be empty")
	}
	if len(title) > maxTitleLength {
		return nil, Invalid("title", "too long")
	}
	if content == "" {
		return nil, Invalid("content", "cannot be empty")
	}
	if len(content) > maxContentLength {
		return nil, Invalid("content", "too long")
	}

	now := time.Now().UTC()
	return &Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyPatch applique une mise à jour partielle (nil = pas de changement).
func (p *Post) ApplyPatch(title, content *string) error {
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return Invalid("title", "cannot be empty")
		}
		if len(t) > maxTitleLength {
			return Invalid("title", "too long")
		}
		p.Title = t
	}
	if content != nil {
		c := strings.TrimSpace(*content)
		if c == "" {
			return Invalid("content", "cannot be empty")
		}
		if len(c) > maxContentLength {
			return Invalid("content", "too long")
		}
		p.Content = c
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Comment référence exactement un post parent. Même règle de propriété
// que Post ; la suppression du parent cascade en base.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Comment) OwnerID() string { return c.AuthorID }

// NewComment valide et construit un commentaire. L'existence du post
// parent est vérifiée par le service, pas ici.
func NewComment(authorID, postID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if postID == "" {
		return nil, Invalid("post_id", "cannot be empty")
	}
	if content == "" {
		return nil, Invalid("content", "cannot be empty")
	}
	if len(content) > maxContentLength {
		return nil, Invalid("content", "too long")
	}

	now := time.Now().UTC()
	return &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyPatch applique une mise à jour partielle du contenu.
func (c *Comment) ApplyPatch(content *string) error {
	if content != nil {
		v := strings.TrimSpace(*content)
		if v == "" {
			return Invalid("content", "cannot be empty")
		}
		if len(v) > maxContentLength {
			return Invalid("content", "too long")
		}
		c.Content = v
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}
