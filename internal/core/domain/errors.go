package domain

import (
	"errors"
	"fmt"
)

// --- ERREURS DU DOMAINE ---
// Les adapters (HTTP, Postgres) traduisent depuis/vers ces sentinelles,
// le cœur ne voit jamais une erreur driver.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("caller is not the owner of this resource")
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidQuery       = errors.New("invalid query")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email or username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError porte le champ fautif jusqu'au client.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Invalid construit une erreur de validation pour un champ donné.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Caller est l'identité résolue attachée à une requête. Zéro = anonyme.
type Caller struct {
	UserID string
}

// Anonymous indique l'absence d'identité authentifiée.
func (c Caller) Anonymous() bool { return c.UserID == "" }

// Owned est la capacité partagée par Post et Comment : une ressource
// possédée par exactement un auteur. Le guard d'autorisation ne connaît
// que cette capacité, pas les types concrets.
type Owned interface {
	OwnerID() string
}
