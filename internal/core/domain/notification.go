package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationFollow  NotificationType = "follow"
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
)

// Notification est un enregistrement destiné à un utilisateur, produit
// par la consommation des événements du domaine (jamais sur le chemin
// d'écriture synchrone).
type Notification struct {
	ID          string
	RecipientID string
	ActorID     string
	Type        NotificationType
	TargetID    string // post ou commentaire concerné, vide pour un follow
	IsRead      bool
	CreatedAt   time.Time
}

// NewNotification construit un enregistrement horodaté. Un acteur ne se
// notifie jamais lui-même : le service filtre ce cas avant d'appeler ici.
func NewNotification(recipientID, actorID string, kind NotificationType, targetID string) *Notification {
	return &Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        kind,
		TargetID:    targetID,
		CreatedAt:   time.Now().UTC(),
	}
}
