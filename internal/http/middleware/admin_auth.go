package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/refinesurgery/clinic-platform/internal/auth"
)

type contextKey string

const adminClaimsKey contextKey = "adminClaims"

// SessionVerifier validates an admin session token.
type SessionVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AdminAuth enforces a valid admin session token on every request.
func AdminAuth(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				http.Error(w, "admin auth disabled", http.StatusUnauthorized)
				return
			}
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaimsFromContext returns the admin session claims if present.
func AdminClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(*auth.Claims)
	return claims, ok
}
