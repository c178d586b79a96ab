package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/inspection-case-backend/internal/config"
	"github.com/iliyamo/inspection-case-backend/internal/model"
	"github.com/iliyamo/inspection-case-backend/internal/service"
	"github.com/iliyamo/inspection-case-backend/internal/utils"
)

const secret = "mw-secret"

func quietLog() *logrus.Entry {
	l, _ := test.NewNullLogger()
	return logrus.NewEntry(l)
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// stubUsers is an in-memory UserLookup keyed by id.
type stubUsers map[uint64]model.PublicUser

func (s stubUsers) Get(_ context.Context, id uint64) (model.PublicUser, error) {
	u, ok := s[id]
	if !ok {
		return model.PublicUser{}, service.ErrNotFound
	}
	return u, nil
}

type failingUsers struct{}

func (failingUsers) Get(context.Context, uint64) (model.PublicUser, error) {
	return model.PublicUser{}, errors.New("db down")
}

func TestJWTAuthAndRequireRole(t *testing.T) {
	users := stubUsers{
		1: {ID: 1, Email: "admin@x.com", Role: "ADMIN"},
		2: {ID: 2, Email: "w@x.com", Role: "CASEWORKER"},
	}
	e := echo.New()
	e.GET("/who", func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		require.True(t, ok)
		return c.String(http.StatusOK, id.Email)
	}, JWTAuth(secret, users), RequireRole("ADMIN"))

	admin, err := utils.NewAccessToken(secret, 1, "admin@x.com", "ADMIN", 5)
	require.NoError(t, err)
	worker, err := utils.NewAccessToken(secret, 2, "w@x.com", "CASEWORKER", 5)
	require.NoError(t, err)
	forged, err := utils.NewAccessToken("other-secret", 1, "admin@x.com", "ADMIN", 5)
	require.NoError(t, err)

	rec := serve(e, http.MethodGet, "/who", admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@x.com", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/who", worker.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/who", forged.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/who", "").Code)
}

func TestJWTAuthUsesStoredRole(t *testing.T) {
	users := stubUsers{1: {ID: 1, Email: "admin@x.com", Role: "ADMIN"}}
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		JWTAuth(secret, users), RequireRole("ADMIN"))

	tok, err := utils.NewAccessToken(secret, 1, "admin@x.com", "ADMIN", 5)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/admin", tok.Token).Code)

	// demoted after the token was issued
	users[1] = model.PublicUser{ID: 1, Email: "admin@x.com", Role: "CASEWORKER"}
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/admin", tok.Token).Code)

	// deleted after the token was issued
	delete(users, 1)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/admin", tok.Token).Code)

	// id reused by a different account
	users[1] = model.PublicUser{ID: 1, Email: "someone@x.com", Role: "ADMIN"}
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/admin", tok.Token).Code)
}

func TestJWTAuthLookupFailure(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, JWTAuth(secret, failingUsers{}))
	tok, err := utils.NewAccessToken(secret, 1, "admin@x.com", "ADMIN", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, serve(e, http.MethodGet, "/me", tok.Token).Code)
}

func TestCurrentIdentityOutsideJWTAuth(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := CurrentIdentity(c)
	assert.False(t, ok)
	assert.Equal(t, "guest", userID(c))
}

func TestRedisCacheHitAndMiss(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "test",
	}
	calls := 0
	e := echo.New()
	e.GET("/stats", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"totalCases": calls})
	}, NewRedisCache(cfg, rdb, quietLog()))

	first := serve(e, http.MethodGet, "/stats", "")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := serve(e, http.MethodGet, "/stats", "")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	other := serve(e, http.MethodGet, "/stats?x=1", "")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestRedisCacheReplaysOnlyRepresentationHeaders(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, TTL: time.Minute, Prefix: "test"}
	e := echo.New()
	e.GET("/stats", func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
		c.Response().Header().Set(echo.HeaderVary, echo.HeaderOrigin)
		return c.JSON(http.StatusOK, echo.Map{"totalCases": 1})
	}, NewRedisCache(cfg, rdb, quietLog()))

	serve(e, http.MethodGet, "/stats", "")
	hit := serve(e, http.MethodGet, "/stats", "")
	require.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, echo.MIMEApplicationJSON, hit.Header().Get(echo.HeaderContentType))
	assert.Empty(t, hit.Header().Values(echo.HeaderAccessControlAllowOrigin))
	assert.Empty(t, hit.Header().Values(echo.HeaderVary))
}

func TestCacheInvalidatorPurgesAfterWrites(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, TTL: time.Minute, Prefix: "test"}
	total := 0
	e := echo.New()
	inv := NewCacheInvalidator(cfg, rdb, quietLog())
	e.GET("/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"totalCases": total})
	}, inv, NewRedisCache(cfg, rdb, quietLog()))
	e.POST("/cases", func(c echo.Context) error {
		total++
		return c.NoContent(http.StatusCreated)
	}, inv)
	e.POST("/broken", func(c echo.Context) error {
		return c.NoContent(http.StatusBadRequest)
	}, inv)

	serve(e, http.MethodGet, "/stats", "")
	require.Equal(t, "HIT", serve(e, http.MethodGet, "/stats", "").Header().Get("X-Cache"))

	serve(e, http.MethodPost, "/broken", "")
	require.Equal(t, "HIT", serve(e, http.MethodGet, "/stats", "").Header().Get("X-Cache"))

	serve(e, http.MethodPost, "/cases", "")
	rec := serve(e, http.MethodGet, "/stats", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"totalCases":1}`, rec.Body.String())
}

func TestRedisCacheSkipsErrors(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, TTL: time.Minute, Prefix: "test"}
	e := echo.New()
	e.GET("/broken", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "boom"})
	}, NewRedisCache(cfg, rdb, quietLog()))

	serve(e, http.MethodGet, "/broken", "")
	rec := serve(e, http.MethodGet, "/broken", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestCacheDisabledWithoutRedis(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}}
	e := echo.New()
	e.GET("/stats", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, NewRedisCache(cfg, nil, quietLog()))
	rec := serve(e, http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{1, 2})
	assert.False(t, ok)
}

func TestTokenBucketRejectsBurst(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
	e := echo.New()
	e.POST("/api/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		NewTokenBucket(cfg, rdb, quietLog()))

	for i := 0; i < 2; i++ {
		rec := serve(e, http.MethodPost, "/api/auth/login", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}
	rec := serve(e, http.MethodPost, "/api/auth/login", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too many requests")
}

func TestTokenBucketFailsOpen(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute}
	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, rdb, quietLog()))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/login", "").Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/auth/login")

	key := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}, c)
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /api/auth/login", key)
	key = buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c)
	assert.Equal(t, "rl:user:guest", key)
}
