package inmemory

import (
	"time"

	"github.com/jupiterclapton/murmure/internal/core/domain"
)

// Rows exposant les entités au moteur de requête. Tout row doit au
// minimum répondre pour "id" et "created_at" (clés secondaires du tri).

type postRow struct {
	post   *domain.Post
	author string // username, résolu au moment du listing
}

func (r postRow) QueryValue(field string) any {
	switch field {
	case "id":
		return r.post.ID
	case "title":
		return r.post.Title
	case "content":
		return r.post.Content
	case "author_id":
		return r.post.AuthorID
	case "author":
		return r.author
	case "created_at":
		return r.post.CreatedAt
	case "updated_at":
		return r.post.UpdatedAt
	default:
		return nil
	}
}

type commentRow struct {
	comment *domain.Comment
}

func (r commentRow) QueryValue(field string) any {
	switch field {
	case "id":
		return r.comment.ID
	case "post_id":
		return r.comment.PostID
	case "author_id":
		return r.comment.AuthorID
	case "content":
		return r.comment.Content
	case "created_at":
		return r.comment.CreatedAt
	case "updated_at":
		return r.comment.UpdatedAt
	default:
		return nil
	}
}

type userRow struct {
	user       *domain.User
	followedAt time.Time // date de l'arête pour les listings du graphe
}

func (r userRow) QueryValue(field string) any {
	switch field {
	case "id":
		return r.user.ID
	case "username":
		return r.user.Username
	case "created_at":
		return r.user.CreatedAt
	case "followed_at":
		return r.followedAt
	default:
		return nil
	}
}

type notificationRow struct {
	n *domain.Notification
}

func (r notificationRow) QueryValue(field string) any {
	switch field {
	case "id":
		return r.n.ID
	case "type":
		return string(r.n.Type)
	case "unread":
		return !r.n.IsRead
	case "created_at":
		return r.n.CreatedAt
	default:
		return nil
	}
}
