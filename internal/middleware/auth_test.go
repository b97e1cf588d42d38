package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clinic-booking-api/internal/auth"
	"clinic-booking-api/internal/middleware"
	"clinic-booking-api/internal/model"
)

const secret = "test-secret-key-that-is-long-enough"

func token(t *testing.T, role model.Role, ttl time.Duration) string {
	t.Helper()
	raw, err := auth.MakeToken(&model.User{
		ID:    "22222222-2222-2222-2222-222222222222",
		Email: "user@clinic.test",
		Role:  role,
	}, secret, ttl)
	require.NoError(t, err)
	return raw
}

// echoPrincipal records the principal the middleware resolved.
func echoPrincipal(got *model.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.PrincipalFrom(r.Context())
		if ok {
			*got = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	dl := auth.NewDenylist(rdb)

	mw := middleware.Auth(secret, dl, zap.NewNop())

	do := func(authHeader string) (*httptest.ResponseRecorder, model.Principal) {
		var p model.Principal
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		mw(echoPrincipal(&p)).ServeHTTP(rec, req)
		return rec, p
	}

	t.Run("valid token passes and resolves the principal", func(t *testing.T) {
		rec, p := do("Bearer " + token(t, model.RoleDoctor, time.Minute))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "22222222-2222-2222-2222-222222222222", p.ID)
		assert.Equal(t, model.RoleDoctor, p.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		rec, _ := do("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing or invalid authorization header")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec, _ := do("Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, _ := do("Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid or expired token")
	})

	t.Run("expired token", func(t *testing.T) {
		rec, _ := do("Bearer " + token(t, model.RolePatient, -time.Minute))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		raw := token(t, model.RolePatient, time.Minute)
		claims, err := auth.ParseToken(raw, secret)
		require.NoError(t, err)
		require.NoError(t, dl.Revoke(context.Background(), claims.ID, time.Minute))

		rec, _ := do("Bearer " + raw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	authed := middleware.Auth(secret, nil, zap.NewNop())
	staffOnly := middleware.RequireRole(model.RoleDoctor, model.RoleAdmin)

	handler := authed(staffOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	do := func(role model.Role) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/records", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, role, time.Minute))
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(model.RoleDoctor))
	assert.Equal(t, http.StatusOK, do(model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, do(model.RolePatient))
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	staffOnly := middleware.RequireRole(model.RoleAdmin)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	staffOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without claims")
	})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
