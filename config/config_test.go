package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "JWT_SECRET", "JWT_TTL", "MAIL_SEND_ENABLED", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	c := Load()
	require.NotNil(t, c)

	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, "postgres", c.StoreDriver)
	assert.False(t, c.IsMemoryStore())
	assert.Equal(t, "devsecret", c.JWTSecret)
	assert.Equal(t, 30*24*time.Hour, c.JWTTTL)
	assert.False(t, c.MailSendEnabled)
	assert.Empty(t, c.CORSOrigins())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("MAIL_SEND_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	c := Load()

	assert.Equal(t, "9090", c.Port)
	assert.True(t, c.IsMemoryStore())
	assert.Equal(t, 2*time.Hour, c.JWTTTL)
	assert.Equal(t, int32(25), c.DBMaxConns)
	assert.True(t, c.MailSendEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")

	c := Load()

	assert.Equal(t, 30*24*time.Hour, c.JWTTTL)
	assert.Equal(t, 0, c.RedisDB)
	assert.True(t, c.RateLimitEnabled)
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", c.PostgresDSN())
}
