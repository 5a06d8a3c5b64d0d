package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id":    "user-1",
		"session_id": "sess-1",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	var called bool
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
		assert.Equal(t, "user-1", string(ctx.Request.Header.Peek("X-User-ID")))
		assert.Equal(t, "sess-1", string(ctx.Request.Header.Peek("X-Session-ID")))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+token)
	handler(&ctx)

	assert.True(t, called)
}

func TestJWTAuthMissingToken(t *testing.T) {
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("handler must not run without a token")
	})

	var ctx fasthttp.RequestCtx
	handler(&ctx)

	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("handler must not run with a forged token")
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+token)
	handler(&ctx)

	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("handler must not run with an expired token")
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+token)
	handler(&ctx)

	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthQueryParamToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	var called bool
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
		assert.Equal(t, "user-1", string(ctx.Request.Header.Peek("X-User-ID")))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/tasks/stream?token=" + token)
	handler(&ctx)

	assert.True(t, called)
}

func TestJWTAuthStripsSpoofedHeaders(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "user-1", string(ctx.Request.Header.Peek("X-User-ID")))
		assert.Empty(t, string(ctx.Request.Header.Peek("X-Session-ID")))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+token)
	ctx.Request.Header.Set("X-User-ID", "attacker")
	ctx.Request.Header.Set("X-Session-ID", "attacker-session")
	handler(&ctx)
}

func TestExtractTokenBareHeader(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "raw-token")
	assert.Equal(t, "raw-token", extractToken(&ctx))
}
