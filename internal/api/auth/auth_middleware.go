package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-blog-api/internal/api"
	"github.com/FACorreiaa/go-blog-api/internal/types"
)

// Typed context key so handler packages cannot collide with ours.
type contextKey string

const PrincipalKey contextKey = "principal"

// Authenticate is middleware that validates bearer tokens on protected
// routes. A request only reaches the wrapped handler with a verified
// principal in its context; every failure short-circuits with 401 before
// any handler logic runs.
func Authenticate(logger *slog.Logger, codec *TokenCodec) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			principal, err := codec.Verify(headerParts[1])
			if err != nil {
				l.WarnContext(ctx, "Token verification failed", slog.Any("error", err))
				errMsg := "Invalid token"
				if errors.Is(err, types.ErrTokenExpired) {
					errMsg = "Token has expired"
				}
				api.ErrorResponse(w, r, http.StatusUnauthorized, errMsg)
				return
			}

			ctx = context.WithValue(ctx, PrincipalKey, principal)
			l.DebugContext(ctx, "Authentication successful", slog.String("username", principal.Username))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipalFromContext returns the principal stored by Authenticate.
func GetPrincipalFromContext(ctx context.Context) (types.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(types.Principal)
	return principal, ok
}
