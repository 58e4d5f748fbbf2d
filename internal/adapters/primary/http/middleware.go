package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
)

// Clé privée pour le contexte (évite les collisions).
type contextKey struct{ name string }

var callerCtxKey = &contextKey{"caller"}

// AuthMiddleware décode le header Authorization et résout l'identité de
// l'appelant. Pas de header = requête anonyme : c'est le guard du core
// qui décide, route par route, si l'anonymat est admis.
func AuthMiddleware(identity ports.IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(header, "Bearer ") {
				respondError(w, domain.ErrInvalidToken)
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			userID, err := identity.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				respondError(w, domain.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), callerCtxKey, domain.Caller{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// callerFrom retourne l'identité du contexte, ou le Caller zéro
// (anonyme) si la requête n'était pas authentifiée.
func callerFrom(ctx context.Context) domain.Caller {
	caller, _ := ctx.Value(callerCtxKey).(domain.Caller)
	return caller
}
