package middleware

import (
	"context"
	"net/http"
	"strings"

	"moneymap/src/auth"
	"moneymap/src/logger"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier checks a bearer credential and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// ParseTokenFromRequest extracts and verifies the bearer token of r.
func ParseTokenFromRequest(r *http.Request, tokens TokenVerifier) (*auth.Claims, bool, error) {
	header := r.Header.Get("Authorization")
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenString == "" {
		return nil, false, nil
	}
	claims, err := tokens.Verify(tokenString)
	return claims, true, err
}

// JWTAuthMiddleware rejects requests without a valid bearer token and puts
// the caller's user id in the request context.
func JWTAuthMiddleware(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, present, err := ParseTokenFromRequest(r, tokens)
			if !present {
				WriteError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			if err != nil {
				log := logger.FromContext(r.Context())
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := WithUserID(r.Context(), claims.Subject)
			log := logger.FromContext(ctx).With().Str("user_id", claims.Subject).Logger()
			ctx = logger.WithContext(ctx, log)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated caller, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
