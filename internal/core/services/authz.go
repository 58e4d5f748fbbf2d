package services

import "github.com/jupiterclapton/murmure/internal/core/domain"

// Action est l'opération tentée sur une ressource possédée.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Authorize est le guard d'autorisation, consulté avant toute écriture.
// Règles, dans l'ordre :
//  1. lecture : toujours permise, identité ou pas (read model public) ;
//  2. toute mutation exige un appelant authentifié ;
//  3. update/delete exigent en plus que l'appelant soit l'auteur.
//
// Le guard ne touche jamais le store : il ne lit que l'auteur déjà
// chargé de la ressource, ce qui le rend testable isolément.
func Authorize(action Action, resource domain.Owned, caller domain.Caller) error {
	if action == ActionRead {
		return nil
	}
	if caller.Anonymous() {
		return domain.ErrUnauthenticated
	}
	if action == ActionCreate {
		return nil
	}
	if resource == nil || resource.OwnerID() != caller.UserID {
		return domain.ErrForbidden
	}
	return nil
}
