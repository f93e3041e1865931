package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgo/notes/api/internal/model"
	"github.com/forgo/notes/api/pkg/jwt"
)

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// VerifyJWT rejects requests without a valid access token. A missing or
// malformed Authorization header is 401; a token that fails validation is
// 403.
func VerifyJWT(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				model.NewUnauthorizedError("Unauthorized").WriteJSON(w)
				return
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				slog.Debug("access token rejected",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
				model.NewForbiddenError("Forbidden").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims extracts the JWT claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}

// GetUsername extracts the authenticated username from context
func GetUsername(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserInfo.Username
	}
	return ""
}

// GetRoles extracts the authenticated roles from context
func GetRoles(ctx context.Context) []string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserInfo.Roles
	}
	return nil
}
