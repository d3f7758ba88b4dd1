package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/rdnpras/mobilku/internal/response"
)

// SessionName is the cookie holding the login session.
const SessionName = "mobilku_session"

// Store is the shared session store, set by main at boot.
var Store sessions.Store

type contextKey string

const userIDKey contextKey = "userID"

// UserMiddleware resolves the session once per request and passes the
// user id to handlers through the request context.
func UserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := Store.Get(r, SessionName)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, ok := session.Values["user_id"].(string)
		if !ok || userID == "" {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID returns the authenticated user id placed by UserMiddleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
