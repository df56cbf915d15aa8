package middleware

import (
	"context"
	"net/http"

	"github.com/rahulm/restaurant-backend/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = 0

// RequireAuth validates the raw token in the Authorization header (no
// "Bearer " prefix) and injects the recovered claims into the request
// context. Requests without a valid token never reach the next handler.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				http.Error(w, `{"message":"Unauthorized: No token provided"}`, http.StatusUnauthorized)
				return
			}

			claims, err := auth.VerifyToken(token, secret)
			if err != nil {
				http.Error(w, `{"message":"Unauthorized: Invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the claims attached by RequireAuth.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
