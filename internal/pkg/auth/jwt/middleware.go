package jwt

import (
	"context"
	"net/http"
	"strings"

	"pulsechat/internal/pkg/errs"
	"pulsechat/internal/pkg/logx"
	"pulsechat/internal/pkg/resp"
)

// Context key for the authenticated user id, scoped to this package to avoid collisions.
type contextKey string

const contextUserIDKey contextKey = "auth_user_id"

// RequireAuth returns a middleware that rejects any request without a valid
// Bearer token. The authenticated user id is injected into the request context.
func RequireAuth(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrTokenMissing))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				resp.RespondError(w, r, errs.NewError(errs.ErrTokenInvalid))
				return
			}

			payload, err := ParseToken(parts[1], secretKey)
			if err != nil {
				logx.Warn("Rejected request with invalid or expired JWT", "error", err)
				resp.RespondError(w, r, errs.NewError(errs.ErrTokenInvalid))
				return
			}

			ctx := context.WithValue(r.Context(), contextUserIDKey, payload.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id set by RequireAuth,
// or an empty string when the request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(contextUserIDKey).(string)
	return userID
}
