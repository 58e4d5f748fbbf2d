package ports

import (
	"context"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

// --- PERSISTANCE (Driven) ---
// Les repositories consomment des query.Plan déjà compilés : tous les
// noms de champs y ont été validés par le schema de la ressource.

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error

	// Delete supprime le post ; la cascade vers ses commentaires et
	// ses likes est une affaire du store, pas de l'application.
	Delete(ctx context.Context, postID string) error

	List(ctx context.Context, plan *query.Plan) ([]*domain.Post, int, error)

	// ListByAuthors restreint la collection aux auteurs donnés avant
	// d'appliquer le plan (chemin du Feed Composer).
	ListByAuthors(ctx context.Context, authorIDs []string, plan *query.Plan) ([]*domain.Post, int, error)
}

type CommentRepository interface {
	Save(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, commentID string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, commentID string) error
	List(ctx context.Context, plan *query.Plan) ([]*domain.Comment, int, error)
}

// GraphRepository matérialise les arêtes de suivi. CreateRelation repose
// sur la contrainte d'unicité du store pour la sûreté concurrentielle :
// deux Follow simultanés de la même paire ne créent qu'une arête, et
// l'appel perdant rapporte created=false sans erreur.
type GraphRepository interface {
	CreateRelation(ctx context.Context, followerID, followeeID string) (created bool, err error)
	DeleteRelation(ctx context.Context, followerID, followeeID string) error
	RelationExists(ctx context.Context, followerID, followeeID string) (bool, error)
	GetRelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)

	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	Followers(ctx context.Context, userID string, plan *query.Plan) ([]*domain.User, int, error)
	Following(ctx context.Context, userID string, plan *query.Plan) ([]*domain.User, int, error)
}

// LikeRepository suit la même convention idempotente que le graphe.
type LikeRepository interface {
	CreateLike(ctx context.Context, userID, postID string) (created bool, err error)
	DeleteLike(ctx context.Context, userID, postID string) error
}

type NotificationRepository interface {
	Save(ctx context.Context, n *domain.Notification) error
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	List(ctx context.Context, recipientID string, plan *query.Plan) ([]*domain.Notification, int, error)
	MarkRead(ctx context.Context, id string) error
}

// --- MESSAGERIE (Broker) ---

// EventPublisher pousse les événements du domaine vers NATS, en
// best-effort après commit : un broker lent ne bloque jamais la réponse.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, userID, username string) error
	PublishUserFollowed(ctx context.Context, followerID, followeeID string) error
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostDeleted(ctx context.Context, postID string) error
	PublishPostLiked(ctx context.Context, userID, postID string) error
	PublishCommentCreated(ctx context.Context, comment *domain.Comment) error
}

// --- SÉCURITÉ (Crypto) ---

// PasswordHasher abstrait l'algorithme de hachage (Argon2, Bcrypt).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenProvider abstrait la génération et la validation des JWT.
type TokenProvider interface {
	GenerateTokens(user *domain.User) (access string, refresh string, err error)
	Validate(token string) (userID string, err error)
}
