package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/velocart/pkg/auth"
	"github.com/shashiranjanraj/velocart/pkg/logger"
	"github.com/shashiranjanraj/velocart/pkg/response"
)

type claimsKey struct{}

// Auth requires a valid bearer token and stores its claims on the request
// context for RoleFromCtx and SubjectFromCtx.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			logger.WithCtx(r.Context()).Debug("rejected bearer token", "error", err)
			response.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func claimsFrom(r *http.Request) (*auth.Claims, bool) {
	c, ok := r.Context().Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

func RoleFromCtx(r *http.Request) (string, bool) {
	c, ok := claimsFrom(r)
	if !ok {
		return "", false
	}
	return c.Role, true
}

// SubjectFromCtx returns the authenticated admin's email.
func SubjectFromCtx(r *http.Request) (string, bool) {
	c, ok := claimsFrom(r)
	if !ok {
		return "", false
	}
	return c.Subject, true
}
