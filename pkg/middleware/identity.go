package middleware

import (
	"context"
	"net/http"
	"strings"
)

const UserIDKey contextKey = "user_id"

// UserHeader carries the already-authenticated caller identity, injected by
// the upstream auth proxy. The engine never inspects credentials.
const UserHeader = "X-User"

// Identity copies the authenticated user id from the request header into
// the context. An absent header leaves the request anonymous; whether
// anonymous admission is permitted is decided by the reservation service.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := strings.TrimSpace(r.Header.Get(UserHeader)); user != "" {
				ctx := context.WithValue(r.Context(), UserIDKey, user)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserID returns the authenticated caller id, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
