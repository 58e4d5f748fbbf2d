package domain

import "time"

// Relation représente une arête dirigée du graphe social
// (follower -> followee). L'existence de l'arête est la seule source
// de vérité pour "A suit B" ; unicité garantie par paire ordonnée.
type Relation struct {
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}

// RelationStatus décrit les deux sens d'une paire en une seule lecture.
type RelationStatus struct {
	IsFollowing  bool // actor suit target
	IsFollowedBy bool // target suit actor
}
