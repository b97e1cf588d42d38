package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"clinic-booking-api/internal/auth"
	"clinic-booking-api/internal/httpx"
	"clinic-booking-api/internal/model"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Auth verifies the Bearer token, consults the revocation denylist, and
// stores the verified claims in the request context.
func Auth(secret string, denylist *auth.Denylist, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if denylist != nil {
				revoked, err := denylist.Revoked(r.Context(), claims.ID)
				if err != nil {
					// revocation check is best-effort; a redis outage must not
					// take down every authenticated route
					log.Warn("denylist check failed", zap.Error(err))
				} else if revoked {
					httpx.Error(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the verified claims placed in ctx by Auth.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// PrincipalFrom returns the request principal derived from the claims.
func PrincipalFrom(ctx context.Context) (model.Principal, bool) {
	c, ok := ClaimsFrom(ctx)
	if !ok {
		return model.Principal{}, false
	}
	return c.Principal(), true
}

// TokenTTL returns how long the current token remains valid, for denylisting
// on logout.
func TokenTTL(c *auth.Claims) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}

// RequireRole restricts a route to the given roles. Must run after Auth.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Error(w, http.StatusForbidden, httpx.ErrForbidden.Error())
		})
	}
}
