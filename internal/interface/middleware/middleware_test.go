package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
)

func init() { gin.SetMode(gin.TestMode) }

type stubResolver struct {
	tokens map[string]entity.Principal
	err    error
}

func (r stubResolver) ResolvePrincipal(_ context.Context, token string) (entity.Principal, error) {
	if r.err != nil {
		return entity.Principal{}, r.err
	}
	p, ok := r.tokens[token]
	if !ok {
		return entity.Principal{}, apperr.Unauthenticated("invalid token")
	}
	return p, nil
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func authEngine(r PrincipalResolver) *gin.Engine {
	e := gin.New()
	e.GET("/me", Auth(r), func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role, "uid": c.GetString(CtxUserIDKey)})
	})
	return e
}

func TestAuth_BearerAndCookie(t *testing.T) {
	e := authEngine(stubResolver{tokens: map[string]entity.Principal{
		"tok": {ID: "u1", Role: entity.RoleParent},
	}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := serve(e, req)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"id": "u1", "role": "PARENT", "uid": "u1"}, body)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "tok"})
	assert.Equal(t, http.StatusOK, serve(e, req).Code)
}

func TestAuth_Rejections(t *testing.T) {
	e := authEngine(stubResolver{tokens: map[string]entity.Principal{}})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing access token")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = serve(e, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)

	broken := authEngine(stubResolver{err: apperr.Internal(context.DeadlineExceeded)})
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	assert.Equal(t, http.StatusInternalServerError, serve(broken, req).Code)
}

func TestRealIP(t *testing.T) {
	e := gin.New()
	e.Use(RealIP())
	e.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.9")
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "203.0.113.9", serve(e, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", serve(e, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("CF-Connecting-IP", "::ffff:192.0.2.7")
	assert.Equal(t, "192.0.2.7", serve(e, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "garbage")
	req.RemoteAddr = "192.0.2.44:5555"
	assert.Equal(t, "192.0.2.44", serve(e, req).Body.String())
}

func TestAllowPrivateIP_PublicAddress(t *testing.T) {
	e := gin.New()
	e.Use(RealIP())
	var private bool
	e.GET("/x", func(c *gin.Context) { private = AllowPrivateIP()(c) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.50")
	serve(e, req)
	assert.False(t, private)
}

func TestKeyFuncsAndAllowPrivateIP(t *testing.T) {
	e := gin.New()
	e.Use(RealIP())
	var ipKey, userKey string
	var private bool
	e.GET("/events/:id", func(c *gin.Context) {
		ipKey = KeyByIPAndPath()(c)
		private = AllowPrivateIP()(c)
		c.Set(CtxUserIDKey, "u1")
		userKey = KeyByUserID()(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/events/42", nil)
	req.Header.Set("X-Forwarded-For", "10.1.2.3")
	serve(e, req)
	assert.Equal(t, "rl:path:/events/:id:ip:10.1.2.3", ipKey)
	assert.True(t, private)
	assert.Equal(t, "rl:user:u1", userKey)
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	e := gin.New()
	e.GET("/x", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serve(e, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
}

func TestRequestID(t *testing.T) {
	e := gin.New()
	e.Use(RequestIDMiddleware())
	e.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", serve(e, req).Body.String())
}
