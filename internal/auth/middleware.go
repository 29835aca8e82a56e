// Package auth extracts the caller identity forwarded by the identity
// service. Token validation and permission evaluation happen upstream;
// these services only read the forwarded claims.
package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/api"
)

const (
	HeaderUserID      = "X-User-Id"
	HeaderPermissions = "X-User-Permissions"
)

type ctxKey string

const (
	ctxUserID      ctxKey = "user_id"
	ctxToken       ctxKey = "token"
	ctxPermissions ctxKey = "permissions"
)

// RequireAuth enforces a bearer token and a caller identity on every request
// and stores both in the request context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			api.Write(w, api.Fail(http.StatusUnauthorized, "authorization", "missing bearer token"))
			return
		}

		uid, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(HeaderUserID)), 10, 64)
		if err != nil || uid <= 0 {
			api.Write(w, api.Fail(http.StatusUnauthorized, "userId", "missing or invalid "+HeaderUserID+" header"))
			return
		}

		ctx := WithIdentity(r.Context(), uid, token, splitPermissions(r.Header.Get(HeaderPermissions)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission guards a route with a permission tag, e.g. "Orden.Crear".
// Tags are granted upstream and forwarded in the permissions header.
func RequirePermission(tag string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasPermission(r.Context(), tag) {
				api.Write(w, api.Fail(http.StatusForbidden, "permission", "missing permission "+tag))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func splitPermissions(raw string) []string {
	var perms []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}
	return perms
}

// WithIdentity returns a context carrying the given claims, as RequireAuth
// would have stored them.
func WithIdentity(ctx context.Context, userID int64, token string, perms []string) context.Context {
	ctx = context.WithValue(ctx, ctxToken, token)
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxPermissions, perms)
}

// UserID returns the authenticated caller id, or 0 when absent.
func UserID(ctx context.Context) int64 {
	if v, ok := ctx.Value(ctxUserID).(int64); ok {
		return v
	}
	return 0
}

// Token returns the raw bearer token forwarded with the request.
func Token(ctx context.Context) string {
	if v, ok := ctx.Value(ctxToken).(string); ok {
		return v
	}
	return ""
}

// Permissions returns the permission tags forwarded with the request.
func Permissions(ctx context.Context) []string {
	perms, _ := ctx.Value(ctxPermissions).([]string)
	return perms
}

func HasPermission(ctx context.Context, tag string) bool {
	perms, ok := ctx.Value(ctxPermissions).([]string)
	if !ok {
		return false
	}
	for _, p := range perms {
		if strings.EqualFold(p, tag) {
			return true
		}
	}
	return false
}
