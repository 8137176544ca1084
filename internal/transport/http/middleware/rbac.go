package middleware

import (
	"net/http"

	"timecard/internal/domain/auth"
	"timecard/internal/transport/http/api"
)

// RequireManager limits a route to owner and manager positions.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		if !auth.CanManageUsers(user.Position) {
			api.Fail(w, http.StatusForbidden, "forbidden", "manager position required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
