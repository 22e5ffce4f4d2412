package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
)

func init() { gin.SetMode(gin.TestMode) }

type resolverFunc func(ctx context.Context, token string) (*entity.User, error)

func (f resolverFunc) ResolveToken(ctx context.Context, token string) (*entity.User, error) {
	return f(ctx, token)
}

func newAuthEngine(r TokenResolver) *gin.Engine {
	e := gin.New()
	e.Use(RequestIDMiddleware())
	e.GET("/me", Auth(r), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    UserID(c),
			"name":  c.GetString(CtxUserNameKey),
			"email": c.GetString(CtxUserEmailKey),
		})
	})
	return e
}

func TestAuth(t *testing.T) {
	alice := &entity.User{ID: "u-1", Username: "alice", Email: "alice@example.com"}
	resolver := resolverFunc(func(_ context.Context, token string) (*entity.User, error) {
		switch token {
		case "good":
			return alice, nil
		case "broken":
			return nil, errors.New("db down")
		}
		return nil, apperror.Unauthenticated("invalid token")
	})
	e := newAuthEngine(resolver)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"resolver failure", "Bearer broken", http.StatusInternalServerError},
		{"valid", "Bearer good", http.StatusOK},
		{"lower-case scheme", "bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tc.want == http.StatusOK {
				assert.Equal(t, "u-1", body["id"])
				assert.Equal(t, "alice", body["name"])
				assert.Equal(t, "alice@example.com", body["email"])
			} else {
				assert.Equal(t, false, body["success"])
				assert.NotEmpty(t, body["request_id"])
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	e := gin.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	e := gin.New()
	e.Use(RealIP())
	e.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"garbage falls back", map[string]string{"CF-Connecting-IP": "nope", "X-Forwarded-For": "also-nope"}, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestAllowPrivateIP(t *testing.T) {
	assert.Nil(t, AllowPrivateIP(false))

	allow := AllowPrivateIP(true)
	require.NotNil(t, allow)

	for ip, want := range map[string]bool{
		"127.0.0.1":   true,
		"10.1.2.3":    true,
		"192.168.0.9": true,
		"8.8.8.8":     false,
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", ip)
		assert.Equal(t, want, allow(c), ip)
	}
}

func TestRateLimitKeys(t *testing.T) {
	e := gin.New()
	e.Use(RealIP())
	var keys []string
	e.GET("/tasks/:id", func(c *gin.Context) {
		c.Set(CtxUserIDKey, "u-9")
		keys = []string{KeyByIP()(c), KeyByIPAndPath()(c), KeyByUserID()(c)}
	})

	req := httptest.NewRequest(http.MethodGet, "/tasks/42", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{
		"rl:ip:198.51.100.1",
		"rl:path:/tasks/:id:ip:198.51.100.1",
		"rl:user:u-9",
	}, keys)
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	e := gin.New()
	e.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 3, toInt(int64(3)))
	assert.Equal(t, 4, toInt(4))
	assert.Equal(t, 5, toInt("5"))
	assert.Equal(t, 0, toInt(nil))
}
