package middleware

import (
	"log/slog"
	"net/http"

	"perfreview/internal/transport/http/api"
)

type AdminChecker interface {
	IsAdmin(email string) bool
}

func RequireAdmin(admins AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !admins.IsAdmin(user.Email) {
				slog.Warn("admin route denied", "email", user.Email, "path", r.URL.Path)
				api.Fail(w, http.StatusForbidden, "forbidden", "admin role required", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
