package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User est l'entité identité. Le PasswordHash est opaque pour le reste
// du cœur (seul le PasswordHasher sait le produire et le vérifier).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Bio          string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser crée une instance valide. C'est le SEUL moyen de créer un user
// proprement (ID généré ici, pas en DB, et invariants vérifiés).
func NewUser(username, email, passwordHash, bio string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(username)) < 3 {
		return nil, Invalid("username", "must be at least 3 characters")
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Bio:          strings.TrimSpace(bio),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateProfile modifie les champs non critiques du profil.
func (u *User) UpdateProfile(bio, avatarURL *string) {
	if bio != nil {
		u.Bio = strings.TrimSpace(*bio)
	}
	if avatarURL != nil {
		u.AvatarURL = strings.TrimSpace(*avatarURL)
	}
	u.touch()
}

// UpdatePassword remplace le hash et met à jour le timestamp.
func (u *User) UpdatePassword(newHash string) {
	u.PasswordHash = newHash
	u.touch()
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return Invalid("email", "invalid email format")
	}
	return nil
}
