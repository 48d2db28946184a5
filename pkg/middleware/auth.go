package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nikhilrana/saman/pkg/auth"
	"github.com/nikhilrana/saman/pkg/response"
)

type userIDKey struct{}
type usernameKey struct{}

// Auth verifies the Bearer access token and stores the caller's identity in
// the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			response.Unauthorized(w, "Authentication credentials were not provided")
			return
		}

		claims, err := auth.ValidateToken(token, auth.TypeAccess)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		ctx = context.WithValue(ctx, usernameKey{}, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromCtx returns the authenticated user's id.
func UserIDFromCtx(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok
}

// UsernameFromCtx returns the authenticated user's username.
func UsernameFromCtx(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey{}).(string)
	return name, ok
}
