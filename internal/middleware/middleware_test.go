package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, claims middleware.TreasuryClaims, key string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func claimsFor(subject, role, issuer string, ttl time.Duration) middleware.TreasuryClaims {
	return middleware.TreasuryClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	chain := append(handlers, func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		fromCtx, _ := middleware.ActorFromCtx(c.Request.Context())
		c.String(http.StatusOK, actor.UserID+"/"+string(fromCtx.Role))
	})
	r.GET("/ping", chain...)
	return r
}

func get(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(middleware.AuthMiddleware(secret, "identity"))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", status: http.StatusUnauthorized},
		{
			name:   "valid",
			header: "Bearer " + token(t, claimsFor("user-1", "MANAGER", "identity", time.Hour), secret),
			status: http.StatusOK,
			body:   "user-1/MANAGER",
		},
		{
			name:   "expired",
			header: "Bearer " + token(t, claimsFor("user-1", "MANAGER", "identity", -time.Minute), secret),
			status: http.StatusUnauthorized,
			body:   "Token has expired",
		},
		{
			name:   "wrong key",
			header: "Bearer " + token(t, claimsFor("user-1", "MANAGER", "identity", time.Hour), "other"),
			status: http.StatusUnauthorized,
		},
		{
			name:   "wrong issuer",
			header: "Bearer " + token(t, claimsFor("user-1", "MANAGER", "elsewhere", time.Hour), secret),
			status: http.StatusUnauthorized,
		},
		{
			name:   "no subject",
			header: "Bearer " + token(t, claimsFor("", "MANAGER", "identity", time.Hour), secret),
			status: http.StatusUnauthorized,
		},
		{
			name:   "unknown role",
			header: "Bearer " + token(t, claimsFor("user-1", "OWNER", "identity", time.Hour), secret),
			status: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Contains(t, w.Body.String(), tt.body)
			}
		})
	}
}

func TestAuthMiddleware_IssuerOptional(t *testing.T) {
	r := newRouter(middleware.AuthMiddleware(secret, ""))
	w := get(r, "Bearer "+token(t, claimsFor("user-2", "STAFF", "anyone", time.Hour), secret))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-2/STAFF", w.Body.String())
}

func TestRateLimit_MemoryStore(t *testing.T) {
	limiter, err := middleware.NewLimiter("2-M", nil)
	require.NoError(t, err)
	r := newRouter(middleware.RateLimit(limiter))

	first := get(r, "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}

func TestRateLimit_PerActor(t *testing.T) {
	limiter, err := middleware.NewLimiter("1-M", nil)
	require.NoError(t, err)
	r := newRouter(middleware.AuthMiddleware(secret, ""), middleware.RateLimit(limiter))

	alice := "Bearer " + token(t, claimsFor("alice", "STAFF", "", time.Hour), secret)
	bob := "Bearer " + token(t, claimsFor("bob", "STAFF", "", time.Hour), secret)

	assert.Equal(t, http.StatusOK, get(r, alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, alice).Code)
	assert.Equal(t, http.StatusOK, get(r, bob).Code, "limits are tracked per user, not per IP")
}

func TestRateLimit_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := middleware.NewLimiter("1-H", client)
	require.NoError(t, err)
	r := newRouter(middleware.RateLimit(limiter))

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.Contains(t, keys[0], "treasury_rate_limit")
}

func TestRateLimit_StoreFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := middleware.NewLimiter("5-M", client)
	require.NoError(t, err)
	r := newRouter(middleware.RateLimit(limiter))

	mr.Close()
	assert.Equal(t, http.StatusInternalServerError, get(r, "").Code)
}

func TestNewLimiter_InvalidRate(t *testing.T) {
	_, err := middleware.NewLimiter("lots", nil)
	assert.Error(t, err)
}

func TestStructuredLogging_RequestID(t *testing.T) {
	r := newRouter()

	w := get(r, "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestActorFromCtx(t *testing.T) {
	_, ok := middleware.ActorFromCtx(context.Background())
	assert.False(t, ok)

	ctx := middleware.WithActor(context.Background(), domain.Actor{UserID: "u1", Role: domain.RoleAdmin})
	actor, ok := middleware.ActorFromCtx(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, actor.Role)

	assert.NotNil(t, middleware.GetLoggerFromCtx(context.Background()))
}
