package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

// --- INPUTS (Command Pattern) ---
// Des structs plutôt que des listes d'arguments : on peut ajouter des
// champs optionnels sans casser les signatures.

type RegisterCmd struct {
	Username string
	Email    string
	Password string
	Bio      string
}

type LoginCmd struct {
	Email    string
	Password string
}

type UpdateProfileCmd struct {
	UserID    string
	Bio       *string // nil = pas de changement
	AvatarURL *string
}

type CreatePostCmd struct {
	Title   string
	Content string
}

// PostPatch est une mise à jour partielle ou totale d'un post.
type PostPatch struct {
	Title   *string
	Content *string
}

type CreateCommentCmd struct {
	PostID  string
	Content string
}

type CommentPatch struct {
	Content *string
}

// --- OUTPUTS ---

type AuthResponse struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// --- PORTS PRIMAIRES (Driving) ---

type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)

	// ValidateToken retourne l'UserID porté par un access token valide.
	ValidateToken(ctx context.Context, token string) (string, error)

	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, caller domain.Caller, cmd UpdateProfileCmd) (*domain.User, error)
	ChangePassword(ctx context.Context, caller domain.Caller, oldPass, newPass string) error
}

// GraphService expose le graphe social. Follow et Unfollow sont
// idempotents du point de vue de l'appelant : répéter le même appel ne
// produit jamais d'erreur ni de changement d'état supplémentaire.
type GraphService interface {
	Follow(ctx context.Context, caller domain.Caller, followeeID string) error
	Unfollow(ctx context.Context, caller domain.Caller, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	CheckRelation(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)

	Followers(ctx context.Context, userID string, spec query.Spec) (*query.Page[*domain.User], error)
	Following(ctx context.Context, userID string, spec query.Spec) (*query.Page[*domain.User], error)

	// FollowingIDs alimente le Feed Composer (pas de pagination ici).
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// ContentService orchestre le CRUD des ressources possédées (posts,
// commentaires) : validation, guard d'autorisation, persistance, events.
type ContentService interface {
	CreatePost(ctx context.Context, caller domain.Caller, cmd CreatePostCmd) (*domain.Post, error)
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	ListPosts(ctx context.Context, spec query.Spec) (*query.Page[*domain.Post], error)
	UpdatePost(ctx context.Context, caller domain.Caller, postID string, patch PostPatch) (*domain.Post, error)
	DeletePost(ctx context.Context, caller domain.Caller, postID string) error

	LikePost(ctx context.Context, caller domain.Caller, postID string) error
	UnlikePost(ctx context.Context, caller domain.Caller, postID string) error

	CreateComment(ctx context.Context, caller domain.Caller, cmd CreateCommentCmd) (*domain.Comment, error)
	GetComment(ctx context.Context, commentID string) (*domain.Comment, error)
	ListComments(ctx context.Context, spec query.Spec) (*query.Page[*domain.Comment], error)
	UpdateComment(ctx context.Context, caller domain.Caller, commentID string, patch CommentPatch) (*domain.Comment, error)
	DeleteComment(ctx context.Context, caller domain.Caller, commentID string) error
}

// FeedService compose la timeline d'un utilisateur à partir du graphe.
type FeedService interface {
	BuildFeed(ctx context.Context, caller domain.Caller, spec query.Spec) (*query.Page[*domain.Post], error)
}

// NotificationService enregistre et sert les notifications. Les méthodes
// Notify* sont appelées par le consommateur d'événements, jamais par le
// chemin d'écriture synchrone.
type NotificationService interface {
	NotifyFollow(ctx context.Context, actorID, recipientID string) error
	NotifyLike(ctx context.Context, actorID, postID string) error
	NotifyComment(ctx context.Context, actorID, postID, commentID string) error

	List(ctx context.Context, caller domain.Caller, spec query.Spec) (*query.Page[*domain.Notification], error)
	MarkRead(ctx context.Context, caller domain.Caller, notificationID string) error
}
