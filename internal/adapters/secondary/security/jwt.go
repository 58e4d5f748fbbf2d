package security

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
)

// UserClaims étend les claims standards JWT avec le profil minimal
// nécessaire aux adapters primaires.
type UserClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type JWTProvider struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
}

// NewJWTProvider charge la paire de clés RSA depuis des blocs PEM.
func NewJWTProvider(privateKeyPEM, publicKeyPEM []byte) (ports.TokenProvider, error) {
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return &JWTProvider{
		privateKey:    privKey,
		publicKey:     pubKey,
		accessExpiry:  15 * time.Minute,
		refreshExpiry: 7 * 24 * time.Hour,
		issuer:        "murmure-api",
	}, nil
}

// GenerateTokens crée la paire Access + Refresh signée en RS256.
func (j *JWTProvider) GenerateTokens(user *domain.User) (string, string, error) {
	now := time.Now()

	accessClaims := UserClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   user.ID,
			ID:        fmt.Sprintf("%s-acc", user.ID),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodRS256, accessClaims).SignedString(j.privateKey)
	if err != nil {
		return "", "", err
	}

	// Le refresh token porte le strict minimum : il ne sert qu'à
	// identifier l'utilisateur pour renouveler l'access token.
	refreshClaims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    j.issuer,
		Subject:   user.ID,
		ID:        fmt.Sprintf("%s-ref", user.ID),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodRS256, refreshClaims).SignedString(j.privateKey)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// Validate vérifie la signature et l'expiration, puis retourne le
// Subject (UserID).
func (j *JWTProvider) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Refuser tout autre algo que RSA (protège contre le
		// downgrade "none" / HS256).
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.publicKey, nil
	})
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
