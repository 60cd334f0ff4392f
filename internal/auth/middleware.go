package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/pkg/handlers"
)

type contextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// CurrentUser returns the authenticated user attached to the context.
func CurrentUser(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(contextKey{}).(*User)
	return user, ok && user != nil
}

// UserID returns the id of the authenticated user attached to the context.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	user, ok := CurrentUser(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}

// Required returns middleware that rejects requests lacking a valid
// bearer token or auth_token cookie.
func Required(sys System, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := requestToken(r)
			if token == "" {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			user, err := sys.Authenticate(r.Context(), token)
			if err != nil {
				handlers.RespondError(w, logger, MapHTTPStatus(err), err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// Optional returns middleware that attaches identity when a valid token
// is present and passes anonymous requests through untouched.
func Optional(sys System, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := requestToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sys.Authenticate(r.Context(), token)
			if err != nil {
				logger.DebugContext(r.Context(), "request token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// requestToken extracts a token from the Authorization header, falling
// back to the auth_token cookie.
func requestToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}

	return ""
}
