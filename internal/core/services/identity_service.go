package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
)

// identityService contient la logique applicative d'authentification.
// Le hachage et les tokens restent derrière leurs ports : le cœur ne
// voit jamais un mot de passe en clair plus loin que le hasher.
type identityService struct {
	repo          ports.UserRepository
	hasher        ports.PasswordHasher
	tokenProvider ports.TokenProvider
	broker        ports.EventPublisher
}

func NewIdentityService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	token ports.TokenProvider,
	broker ports.EventPublisher,
) ports.IdentityService {
	return &identityService{
		repo:          repo,
		hasher:        hasher,
		tokenProvider: token,
		broker:        broker,
	}
}

func (s *identityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	// Vérification "soft" de l'unicité ; la contrainte UNIQUE de la DB
	// reste la garantie ultime en cas de course.
	if existing, err := s.repo.GetByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if existing, err := s.repo.GetByUsername(ctx, cmd.Username); err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	if len(cmd.Password) < 8 {
		return nil, domain.Invalid("password", "must be at least 8 characters")
	}

	hashed, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := domain.NewUser(cmd.Username, cmd.Email, hashed, cmd.Bio)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	access, refresh, err := s.tokenProvider.GenerateTokens(user)
	if err != nil {
		// User créé mais tokens échoués : le client devra passer par
		// Login, le compte existe déjà.
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	// Best effort : un broker lent ne bloque pas l'inscription.
	_ = s.broker.PublishUserRegistered(ctx, user.ID, user.Username)

	return &ports.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    15 * time.Minute,
	}, nil
}

func (s *identityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		// On ne dit pas au client si c'est l'email ou le mot de passe.
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	access, refresh, err := s.tokenProvider.GenerateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("login token gen failed: %w", err)
	}

	return &ports.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    15 * time.Minute,
	}, nil
}

func (s *identityService) ValidateToken(ctx context.Context, token string) (string, error) {
	return s.tokenProvider.Validate(token)
}

func (s *identityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *identityService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *identityService) UpdateProfile(ctx context.Context, caller domain.Caller, cmd ports.UpdateProfileCmd) (*domain.User, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}
	if cmd.UserID != "" && cmd.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}

	user, err := s.repo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	if cmd.Bio == nil && cmd.AvatarURL == nil {
		return user, nil
	}

	user.UpdateProfile(cmd.Bio, cmd.AvatarURL)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}
	return user, nil
}

func (s *identityService) ChangePassword(ctx context.Context, caller domain.Caller, oldPass, newPass string) error {
	if caller.Anonymous() {
		return domain.ErrUnauthenticated
	}

	user, err := s.repo.GetByID(ctx, caller.UserID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.PasswordHash, oldPass); err != nil {
		return fmt.Errorf("old password incorrect: %w", domain.ErrInvalidCredentials)
	}
	if len(newPass) < 8 {
		return domain.Invalid("password", "must be at least 8 characters")
	}

	newHash, err := s.hasher.Hash(newPass)
	if err != nil {
		return err
	}

	user.UpdatePassword(newHash)
	return s.repo.Update(ctx, user)
}
