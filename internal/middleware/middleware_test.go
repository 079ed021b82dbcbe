package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

func whoAmI(c echo.Context) error {
	a, ok := ActorFrom(c)
	if !ok {
		return c.NoContent(http.StatusTeapot)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": a.ID, "role": a.Role})
}

func serve(e *echo.Echo, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRequireRole(t *testing.T) {
	tokens := service.NewTokenService("mw-secret", time.Hour)
	client, err := tokens.Issue(model.Identity{ID: 5, Role: model.RoleClient})
	require.NoError(t, err)
	admin, err := tokens.Issue(model.Identity{ID: 1, Role: model.RoleAdmin})
	require.NoError(t, err)

	e := echo.New()
	g := e.Group("", JWTAuth(tokens))
	g.GET("/me", whoAmI)
	g.GET("/admin", whoAmI, RequireRole(model.RoleAdmin))

	rec := serve(e, http.MethodGet, "/me", "Bearer "+client.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":5,"role":"client"}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/me", "bearer "+client.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, bad := range []string{"", "Bearer ", "Basic abc", "Bearer not.a.jwt"} {
		rec = serve(e, http.MethodGet, "/me", bad)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, bad)
		assert.JSONEq(t, `{"error":"unauthenticated"}`, rec.Body.String())
	}

	rec = serve(e, http.MethodGet, "/admin", "Bearer "+client.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = serve(e, http.MethodGet, "/admin", "Bearer "+admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	e := echo.New()
	e.GET("/admin", whoAmI, RequireRole(model.RoleAdmin))
	rec := serve(e, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDisabledRedisMiddlewarePassThrough(t *testing.T) {
	e := echo.New()
	log := zerolog.Nop()
	e.GET("/rooms", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil, log),
		PurgeOnWrite(config.CacheConfig{Enabled: true}, nil, log))

	rec := serve(e, http.MethodGet, "/rooms", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCaptureWriterOverflow(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.False(t, cw.overflowed)
	_, err = cw.Write([]byte("def"))
	require.NoError(t, err)
	assert.True(t, cw.overflowed)
	assert.Zero(t, cw.buf.Len())
	assert.Equal(t, "abcdef", rec.Body.String(), "client still gets the full body")
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"image/png"}}
	body := []byte{0x89, 'P', 'N', 'G'}
	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "image/png", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 50, '{'})
	assert.False(t, ok)
}

func TestCacheKeyDistinguishesRooms(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "hotel:cache", KeyStrategy: "route_query"}
	key := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/v1/rooms/:id/image")
		return cacheKeyFrom(cfg, c)
	}
	assert.NotEqual(t, key("/v1/rooms/1/image"), key("/v1/rooms/2/image"))
	assert.Equal(t, key("/v1/rooms/1/image"), key("/v1/rooms/1/image"))
	assert.Contains(t, key("/v1/rooms/1/image"), "hotel:cache:")
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/auth/login")

	cfg := config.RateLimitConfig{Prefix: "hotel:rl:auth"}
	assert.Equal(t, "hotel:rl:auth:ip:10.0.0.9:user:anon:route:POST /v1/auth/login", buildRateKey(cfg, c))

	setActor(c, service.Actor{ID: 12, Role: model.RoleClient})
	cfg.KeyStrategy = "user"
	assert.Equal(t, "hotel:rl:auth:user:12", buildRateKey(cfg, c))
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	require.True(t, ok)
	assert.True(t, allowed)
	assert.Equal(t, int64(4), remaining)
	assert.Zero(t, retry)

	allowed, _, retry, ok = parseBucketResult([]interface{}{int64(0), int64(0), int64(750)})
	require.True(t, ok)
	assert.False(t, allowed)
	assert.Equal(t, int64(750), retry)

	_, _, _, ok = parseBucketResult("nope")
	assert.False(t, ok)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/v1/rooms/:id", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound) })

	rec := serve(e, http.MethodGet, "/v1/rooms/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, buf.String(), `"path":"/v1/rooms/:id"`)
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Contains(t, buf.String(), `"user_id":"anon"`)
}
